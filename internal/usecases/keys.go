package usecases

import "fmt"

// Blob key layout. Chunks are keyed by (session, start offset) so retried
// submissions of the same accepted range land on the same key; finalized
// objects live under a separate prefix keyed by file id.

func SessionChunkPrefix(sessionID string) string {
	return fmt.Sprintf("sessions/%s/", sessionID)
}

func ChunkKey(sessionID string, start int64) string {
	return fmt.Sprintf("sessions/%s/%012d", sessionID, start)
}

func ObjectKey(fileID string) string {
	return fmt.Sprintf("objects/%s", fileID)
}
