package model

import "time"

type Task struct {
	ID        int64     `json:"id"`
	Title     string    `json:"title"`
	IsDone    bool      `json:"is_done"`
	CreatedAt time.Time `json:"created_at"`
}

// CreateTaskRequest is the POST /api/tasks body.
type CreateTaskRequest struct {
	Title string `json:"title"`
}

// TimeResponse is the GET /api body.
type TimeResponse struct {
	Time time.Time `json:"time"`
}
