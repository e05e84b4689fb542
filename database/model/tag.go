package model

import "time"

type Tag struct {
	Id   int64  `json:"id"`
	Name string `json:"name"`
}

type FileTag struct {
	FileId       int64     `json:"file_id"`
	TagId        int64     `json:"tag_id"`
	Name         string    `json:"name"`
	AutoAssigned bool      `json:"auto_assigned"`
	AssignedAt   time.Time `json:"assigned_at"`
}

type AutoTagRule struct {
	Id      int64  `json:"id"`
	Source  string `json:"source"`
	Tag     string `json:"tag"`
	Enabled bool   `json:"enabled"`
}
