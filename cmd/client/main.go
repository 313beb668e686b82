package main

import (
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"sync"
	"syscall"
	"time"

	"dropzone/internal/domain/dto"
	"dropzone/pkg/checksum"
)

// Command-line uploader. Splits a file into byte ranges, streams them
// concurrently into an upload session and finalizes once every range is
// accepted. Ctrl+C aborts the session server-side.

type uploadProgress struct {
	mu       sync.Mutex
	uploaded int
	failed   int
	total    int
}

func (p *uploadProgress) done(ok bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if ok {
		p.uploaded++
	} else {
		p.failed++
	}
}

func (p *uploadProgress) snapshot() (uploaded, failed, total int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.uploaded, p.failed, p.total
}

func main() {
	server := flag.String("server", "http://localhost:3000/api/v1", "server base URL")
	filePath := flag.String("file", "", "path of the file to upload")
	contentType := flag.String("type", "", "declared content type (sniffed server-side when empty)")
	chunkSize := flag.Int64("chunk-size", 8*1024*1024, "chunk size in bytes")
	concurrency := flag.Int("concurrency", 5, "parallel chunk uploads")
	share := flag.Bool("share", false, "issue a share link after the upload completes")
	flag.Parse()

	if *filePath == "" {
		log.Fatal("-file is required")
	}
	if *chunkSize <= 0 {
		log.Fatal("-chunk-size must be positive")
	}

	file, err := os.Open(*filePath)
	if err != nil {
		log.Fatalf("could not open file: %v", err)
	}
	defer file.Close()

	stat, err := file.Stat()
	if err != nil {
		log.Fatalf("could not stat file: %v", err)
	}
	totalSize := stat.Size()
	totalChunks := int((totalSize + *chunkSize - 1) / *chunkSize)

	base := strings.TrimRight(*server, "/")
	sessionID, err := createSession(base, filepath.Base(stat.Name()), totalSize, *contentType)
	if err != nil {
		log.Fatalf("could not create session: %v", err)
	}

	fmt.Printf("server: %s\n", base)
	fmt.Printf("file: %s (%d bytes)\n", stat.Name(), totalSize)
	fmt.Printf("session: %s | chunk size: %d | chunks: %d\n", sessionID, *chunkSize, totalChunks)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

	progress := &uploadProgress{total: totalChunks}
	stopTicker := make(chan struct{})
	go func() {
		ticker := time.NewTicker(time.Second)
		defer ticker.Stop()
		for {
			select {
			case <-stopTicker:
				return
			case <-ticker.C:
				uploaded, failed, total := progress.snapshot()
				fmt.Printf("\rprogress: %d/%d uploaded, %d failed", uploaded, total, failed)
			}
		}
	}()

	sem := make(chan struct{}, *concurrency)
	var wg sync.WaitGroup
	for i := 0; i < totalChunks; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()

			start := int64(i) * (*chunkSize)
			end := start + *chunkSize
			if end > totalSize {
				end = totalSize
			}

			buf := make([]byte, end-start)
			if _, err := file.ReadAt(buf, start); err != nil && err != io.EOF {
				log.Printf("\ncould not read range [%d,%d): %v", start, end, err)
				progress.done(false)
				return
			}
			if err := putChunk(base, sessionID, start, end, buf); err != nil {
				log.Printf("\ncould not upload range [%d,%d): %v", start, end, err)
				progress.done(false)
				return
			}
			progress.done(true)
		}(i)
	}

	waitCh := make(chan struct{})
	go func() {
		wg.Wait()
		close(waitCh)
	}()

	select {
	case <-waitCh:
		close(stopTicker)
		uploaded, failed, total := progress.snapshot()
		fmt.Printf("\nupload finished: %d/%d ok, %d failed\n", uploaded, total, failed)
		if failed > 0 {
			abort(base, sessionID)
			os.Exit(1)
		}

		resp, err := finalize(base, sessionID)
		if err != nil {
			log.Fatalf("finalize failed: %v", err)
		}
		fmt.Printf("stored as file %s (%s)\n", resp.FileID, resp.ContentType)

		if *share {
			token, err := issueLink(base, resp.FileID)
			if err != nil {
				log.Fatalf("could not issue share link: %v", err)
			}
			fmt.Printf("share link: %s/links/%s\n", base, token)
		}

	case <-sigCh:
		close(stopTicker)
		fmt.Println("\naborting upload...")
		abort(base, sessionID)
		fmt.Println("session aborted")
	}
}

func createSession(base, fileName string, size int64, contentType string) (string, error) {
	payload, err := json.Marshal(dto.CreateSessionRequest{
		FileName:     fileName,
		DeclaredSize: size,
		DeclaredType: contentType,
	})
	if err != nil {
		return "", err
	}
	resp, err := http.Post(base+"/sessions", "application/json", bytes.NewReader(payload))
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusCreated {
		return "", httpError(resp)
	}
	var created dto.CreateSessionResponse
	if err := json.NewDecoder(resp.Body).Decode(&created); err != nil {
		return "", err
	}
	return created.SessionID, nil
}

func putChunk(base, sessionID string, start, end int64, body []byte) error {
	url := fmt.Sprintf("%s/sessions/%s/chunks?start=%d&end=%d&checksum=%s",
		base, sessionID, start, end, checksum.Sum(body))
	req, err := http.NewRequest(http.MethodPut, url, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/octet-stream")

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return httpError(resp)
	}
	return nil
}

func finalize(base, sessionID string) (*dto.FinalizeResponse, error) {
	resp, err := http.Post(fmt.Sprintf("%s/sessions/%s/finalize", base, sessionID), "application/json", nil)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, httpError(resp)
	}
	var finalized dto.FinalizeResponse
	if err := json.NewDecoder(resp.Body).Decode(&finalized); err != nil {
		return nil, err
	}
	return &finalized, nil
}

func issueLink(base, fileID string) (string, error) {
	payload, err := json.Marshal(dto.IssueLinkRequest{FileID: fileID})
	if err != nil {
		return "", err
	}
	resp, err := http.Post(base+"/links", "application/json", bytes.NewReader(payload))
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return "", httpError(resp)
	}
	var link dto.ShareLinkResponse
	if err := json.NewDecoder(resp.Body).Decode(&link); err != nil {
		return "", err
	}
	return link.ShortToken, nil
}

func abort(base, sessionID string) {
	req, err := http.NewRequest(http.MethodDelete, fmt.Sprintf("%s/sessions/%s", base, sessionID), nil)
	if err != nil {
		log.Printf("could not build abort request: %v", err)
		return
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		log.Printf("abort request failed: %v", err)
		return
	}
	resp.Body.Close()
}

func httpError(resp *http.Response) error {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
	return fmt.Errorf("HTTP %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
}
