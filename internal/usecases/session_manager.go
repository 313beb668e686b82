package usecases

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"dropzone/internal/domain/dto"
	"dropzone/internal/domain/entities"
	"dropzone/internal/domain/repositories"
	"dropzone/pkg/checksum"
	"dropzone/pkg/constants"
	"dropzone/pkg/errors"
	"dropzone/pkg/ranges"
)

// SessionManager owns the lifecycle of upload sessions. Callers must
// serialize operations per session id (the coordinator does); methods
// here assume they hold exclusive ownership of the session they touch.
type SessionManager interface {
	Create(ctx context.Context, fileName string, declaredSize int64, declaredType string) (*entities.UploadSession, error)
	// ReceiveChunk durably stores bytes for [start,end), records the
	// range, and returns the fraction complete. expectedSum is an
	// optional hex SHA-256 of the chunk.
	ReceiveChunk(ctx context.Context, sessionID string, start, end int64, data []byte, expectedSum string) (*dto.ProgressSnapshot, error)
	Finalize(ctx context.Context, sessionID string) (*dto.FinalizeResponse, error)
	// Abort cancels the session and releases its partial chunk storage.
	// Completed and Aborted sessions are a no-op. Failed is deliberately
	// abortable: it refuses chunks but keeps them for a finalize retry,
	// and abort is how that storage is given back early.
	Abort(ctx context.Context, sessionID string) error
	Status(ctx context.Context, sessionID string) (*dto.SessionStatusResponse, error)
	// SessionIDs snapshots the ids of all live sessions. Ids are
	// immutable after creation, so reading them needs no session lock.
	SessionIDs() []string
	// Sweep applies the maintenance policy to one session: a Receiving
	// session idle for at least staleAfter is aborted, and a terminal
	// session idle for at least retention is dropped from the session
	// table. The caller must hold the session's lock, like any other
	// per-session operation.
	Sweep(ctx context.Context, sessionID string, staleAfter, retention time.Duration) SweepAction
	// CountReceiving reports how many sessions are currently Receiving;
	// the coordinator's admission check reads it.
	CountReceiving() int
}

// SweepAction is what Sweep decided for one session.
type SweepAction int

const (
	SweepNone SweepAction = iota
	SweepAborted
	SweepCollected
)

// SessionPolicy is the admission policy applied at session creation.
type SessionPolicy struct {
	MaxFileSize  int64
	AllowedTypes []string
}

func (p SessionPolicy) allows(declaredType string) bool {
	// unknown type is permitted and resolved by sniffing at finalize
	if declaredType == "" || len(p.AllowedTypes) == 0 {
		return true
	}
	for _, t := range p.AllowedTypes {
		if strings.EqualFold(t, declaredType) {
			return true
		}
	}
	return false
}

type sessionManager struct {
	sessions  repositories.SessionStore
	store     repositories.BlobStore
	assembler ChunkAssembler
	files     repositories.FileStore
	releaser  repositories.StorageReleaser
	events    repositories.EventPublisher
	policy    SessionPolicy
	now       func() time.Time

	// receiving counts sessions in Receiving. Kept as an atomic so the
	// admission check never reads session fields that per-session locks
	// are mutating.
	receiving atomic.Int64
}

func NewSessionManager(
	sessions repositories.SessionStore,
	store repositories.BlobStore,
	assembler ChunkAssembler,
	files repositories.FileStore,
	releaser repositories.StorageReleaser,
	events repositories.EventPublisher,
	policy SessionPolicy,
) SessionManager {
	return &sessionManager{
		sessions:  sessions,
		store:     store,
		assembler: assembler,
		files:     files,
		releaser:  releaser,
		events:    events,
		policy:    policy,
		now:       time.Now,
	}
}

func (s *sessionManager) Create(ctx context.Context, fileName string, declaredSize int64, declaredType string) (*entities.UploadSession, error) {
	if fileName == "" {
		return nil, errors.ErrPolicyViolation(fmt.Errorf("file name is required"))
	}
	if declaredSize <= 0 {
		return nil, errors.ErrPolicyViolation(fmt.Errorf("declared size must be positive, got %d", declaredSize))
	}
	if declaredSize > s.policy.MaxFileSize {
		return nil, errors.ErrPolicyViolation(fmt.Errorf("declared size %d exceeds limit %d", declaredSize, s.policy.MaxFileSize))
	}
	if !s.policy.allows(declaredType) {
		return nil, errors.ErrPolicyViolation(fmt.Errorf("type %q is not allowed", declaredType))
	}

	session := entities.NewUploadSession(uuid.NewString(), fileName, declaredSize, declaredType, s.now())
	if err := s.sessions.Create(session); err != nil {
		return nil, errors.ErrInternal(err)
	}
	s.receiving.Add(1)

	s.publish(ctx, session, entities.EventStatusChanged)
	return session, nil
}

func (s *sessionManager) ReceiveChunk(ctx context.Context, sessionID string, start, end int64, data []byte, expectedSum string) (*dto.ProgressSnapshot, error) {
	session, err := s.get(sessionID)
	if err != nil {
		return nil, err
	}
	if session.Status != constants.StatusReceiving {
		return nil, errors.ErrInvalidState(fmt.Errorf("session is %s", session.Status))
	}
	if start < 0 || end <= start || end > session.DeclaredSize {
		return nil, errors.ErrPolicyViolation(fmt.Errorf("range [%d,%d) outside [0,%d)", start, end, session.DeclaredSize))
	}
	if got := int64(len(data)); got != end-start {
		return nil, errors.ErrPolicyViolation(fmt.Errorf("body is %d bytes, range declares %d", got, end-start))
	}
	if err := checksum.Validate(data, expectedSum); err != nil {
		return nil, errors.ErrPolicyViolation(err)
	}

	// Fast-path conflict check before touching storage. Without it an
	// overlapping resubmission sharing a start offset would overwrite
	// the already-accepted chunk's blob.
	r := ranges.Range{Start: start, End: end}
	if session.Received.Conflicts(r) {
		return nil, errors.ErrRangeConflict(fmt.Errorf("range %s overlaps an accepted chunk", r))
	}

	if err := s.store.Put(ctx, ChunkKey(sessionID, start), bytes.NewReader(data)); err != nil {
		return nil, errors.ErrStorageUnavailable(err)
	}
	if err := s.assembler.RecordRange(session, start, end); err != nil {
		// authoritative check; unreachable while ops are serialized
		if delErr := s.store.Delete(ctx, ChunkKey(sessionID, start)); delErr != nil {
			slog.Warn("could not delete conflicting chunk", "session", sessionID, "error", delErr)
		}
		return nil, err
	}

	session.LastActivityAt = s.now()
	s.publish(ctx, session, entities.EventChunkAccepted)

	return &dto.ProgressSnapshot{
		SessionID:    session.ID,
		Status:       session.Status,
		CoveredBytes: session.Received.Covered(),
		DeclaredSize: session.DeclaredSize,
		Progress:     session.Progress(),
	}, nil
}

func (s *sessionManager) Finalize(ctx context.Context, sessionID string) (*dto.FinalizeResponse, error) {
	session, err := s.get(sessionID)
	if err != nil {
		return nil, err
	}
	// Failed sessions may be re-finalized; that is the operator's retry
	// path after a blob store outage.
	if session.Status != constants.StatusReceiving && session.Status != constants.StatusFailed {
		return nil, errors.ErrInvalidState(fmt.Errorf("session is %s", session.Status))
	}
	if !s.assembler.IsComplete(session) {
		gaps := session.Received.Gaps(session.DeclaredSize)
		return nil, errors.ErrIncompleteUpload(fmt.Errorf("missing ranges: %v", gaps))
	}

	s.transition(ctx, session, constants.StatusAssembling)
	if session.FileID == "" {
		session.FileID = uuid.NewString()
	}

	objectKey, err := s.assembler.Assemble(ctx, session)
	if err != nil {
		s.failAssembly(ctx, session, err)
		return nil, err
	}

	contentType := session.DeclaredType
	if contentType == "" {
		contentType = s.sniffContentType(ctx, objectKey)
	}

	file := &entities.StoredFile{
		ID:          session.FileID,
		Name:        session.FileName,
		Size:        session.DeclaredSize,
		ContentType: contentType,
		ObjectKey:   objectKey,
		UploadedAt:  s.now(),
	}
	if err := s.files.Create(ctx, file); err != nil {
		wrapped := errors.ErrStorageUnavailable(fmt.Errorf("could not record file metadata: %w", err))
		s.failAssembly(ctx, session, wrapped)
		return nil, wrapped
	}

	session.FinalObjectRef = objectKey
	s.transition(ctx, session, constants.StatusCompleted)
	s.release(ctx, session.ID)

	return &dto.FinalizeResponse{
		ObjectRef:   objectKey,
		FileID:      session.FileID,
		ContentType: contentType,
	}, nil
}

func (s *sessionManager) Abort(ctx context.Context, sessionID string) error {
	session, err := s.get(sessionID)
	if err != nil {
		return err
	}
	switch session.Status {
	case constants.StatusCompleted, constants.StatusAborted:
		// idempotent
		return nil
	}
	// Failed sessions keep their chunks for a finalize retry; aborting
	// one gives the storage back.

	s.transition(ctx, session, constants.StatusAborted)
	s.release(ctx, session.ID)
	return nil
}

func (s *sessionManager) Status(ctx context.Context, sessionID string) (*dto.SessionStatusResponse, error) {
	session, err := s.get(sessionID)
	if err != nil {
		return nil, err
	}

	resp := &dto.SessionStatusResponse{
		SessionID:    session.ID,
		FileName:     session.FileName,
		Status:       session.Status,
		Progress:     session.Progress(),
		Received:     session.Received.Spans(),
		DeclaredSize: session.DeclaredSize,
	}
	if session.Status == constants.StatusReceiving {
		resp.Missing = session.Received.Gaps(session.DeclaredSize)
	}
	return resp, nil
}

func (s *sessionManager) SessionIDs() []string {
	sessions := s.sessions.List()
	ids := make([]string, 0, len(sessions))
	for _, session := range sessions {
		ids = append(ids, session.ID)
	}
	return ids
}

func (s *sessionManager) Sweep(ctx context.Context, sessionID string, staleAfter, retention time.Duration) SweepAction {
	session, err := s.sessions.Get(sessionID)
	if err != nil {
		// already collected by an earlier sweep
		return SweepNone
	}

	action := SweepNone
	if session.Status == constants.StatusReceiving && !session.LastActivityAt.After(s.now().Add(-staleAfter)) {
		s.transition(ctx, session, constants.StatusAborted)
		s.release(ctx, session.ID)
		action = SweepAborted
	}
	if session.Terminal() && !session.LastActivityAt.After(s.now().Add(-retention)) {
		if session.Status == constants.StatusFailed {
			// nobody retried the finalize; give the chunk storage back
			s.release(ctx, session.ID)
		}
		s.sessions.Delete(session.ID)
		return SweepCollected
	}
	return action
}

func (s *sessionManager) CountReceiving() int {
	return int(s.receiving.Load())
}

func (s *sessionManager) get(sessionID string) (*entities.UploadSession, error) {
	session, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, errors.ErrSessionNotFound(fmt.Errorf("session %s: %w", sessionID, err))
	}
	return session, nil
}

func (s *sessionManager) transition(ctx context.Context, session *entities.UploadSession, status string) {
	if session.Status == constants.StatusReceiving && status != constants.StatusReceiving {
		s.receiving.Add(-1)
	}
	session.Status = status
	session.LastActivityAt = s.now()
	s.publish(ctx, session, entities.EventStatusChanged)
}

func (s *sessionManager) failAssembly(ctx context.Context, session *entities.UploadSession, cause error) {
	s.transition(ctx, session, constants.StatusFailed)
	failure := &entities.AssemblyFailure{
		SessionID: session.ID,
		FileName:  session.FileName,
		LastError: cause.Error(),
		CreatedAt: s.now(),
	}
	if err := s.files.RecordAssemblyFailure(ctx, failure); err != nil {
		slog.Error("could not record assembly failure", "session", session.ID, "error", err)
	}
}

func (s *sessionManager) release(ctx context.Context, sessionID string) {
	if err := s.releaser.Release(ctx, sessionID); err != nil {
		slog.Error("could not release chunk storage", "session", sessionID, "error", err)
	}
}

func (s *sessionManager) publish(ctx context.Context, session *entities.UploadSession, eventType string) {
	event := entities.UploadEvent{
		SessionID: session.ID,
		Type:      eventType,
		Status:    session.Status,
		Progress:  session.Progress(),
		At:        s.now(),
	}
	if err := s.events.Publish(ctx, event); err != nil {
		slog.Warn("could not publish upload event", "session", session.ID, "error", err)
	}
}

// sniffContentType reads the leading bytes of the assembled object. Sniff
// failures fall back to octet-stream rather than failing the finalize.
func (s *sessionManager) sniffContentType(ctx context.Context, objectKey string) string {
	const fallback = "application/octet-stream"

	rc, err := s.store.Get(ctx, objectKey)
	if err != nil {
		return fallback
	}
	defer rc.Close()

	head := make([]byte, 512)
	n, err := io.ReadFull(rc, head)
	if err != nil && err != io.ErrUnexpectedEOF && err != io.EOF {
		return fallback
	}
	return http.DetectContentType(head[:n])
}
