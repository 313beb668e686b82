package queue

import (
	"encoding/json"
	"fmt"
)

type JobType string

const (
	// JobReleaseChunks frees the partial chunk storage of an aborted or
	// reaped session.
	JobReleaseChunks JobType = "release_chunks"
	// JobDeleteObject deletes a finalized object after its file record
	// was removed.
	JobDeleteObject JobType = "delete_object"
)

// ReleaseQueue is the Redis list the server pushes jobs onto and the
// worker process drains.
const ReleaseQueue = "cleanup_queue"

// EventsChannel is the Redis pub/sub channel carrying upload events.
const EventsChannel = "upload_events"

type Job struct {
	Type      JobType `json:"type"`
	SessionID string  `json:"session_id,omitempty"`
	ObjectKey string  `json:"object_key,omitempty"`
}

func SerializeJob(job Job) (string, error) {
	bytes, err := json.Marshal(job)
	if err != nil {
		return "", fmt.Errorf("failed to serialize job: %w", err)
	}
	return string(bytes), nil
}

func DeserializeJob(data string) (*Job, error) {
	var job Job
	if err := json.Unmarshal([]byte(data), &job); err != nil {
		return nil, fmt.Errorf("failed to deserialize job: %w", err)
	}
	return &job, nil
}
