package pipeline

import (
	"fftpeg/backend"
	"fftpeg/database/model"
	"fftpeg/organize"
	"fmt"
	"strings"
)

type Status string

const (
	STATUS_EXISTS    Status = "exists"
	STATUS_DUPLICATE Status = "duplicate"
	STATUS_SUCCESS   Status = "success"
	STATUS_ERROR     Status = "error"
)

type Stage string

const (
	STAGE_CHECK   Stage = "check"
	STAGE_FETCH   Stage = "fetch"
	STAGE_HASH    Stage = "hash"
	STAGE_PERSIST Stage = "persist"
	STAGE_TAG     Stage = "tag"
)

// Outcome is one of *Exists, *Duplicate, *Success or *Failed.
type Outcome interface {
	Status() Status
	// one line for the user, with the relevant path or id
	Message() string
}

// Exists: the url was fetched before, nothing was downloaded.
type Exists struct {
	Record *model.Download
}

func (o *Exists) Status() Status { return STATUS_EXISTS }

func (o *Exists) Message() string {
	return fmt.Sprintf("already downloaded as #%d: %s", o.Record.Id, o.Record.Filepath)
}

// Duplicate: the fetched content matched an existing record and was deleted.
type Duplicate struct {
	Existing *model.Download
}

func (o *Duplicate) Status() Status { return STATUS_DUPLICATE }

func (o *Duplicate) Message() string {
	return fmt.Sprintf("duplicate content of #%d: %s", o.Existing.Id, o.Existing.Filepath)
}

type AppliedTag struct {
	Name         string `json:"name"`
	AutoAssigned bool   `json:"auto_assigned"`
}

type Success struct {
	ID         int64
	Path       string
	Source     string
	Tags       []AppliedTag
	Metadata   backend.RemoteInfo
	Placements organize.Result
}

func (o *Success) Status() Status { return STATUS_SUCCESS }

func (o *Success) Message() string {
	msg := fmt.Sprintf("downloaded #%d from %s: %s", o.ID, o.Source, o.Path)
	if len(o.Tags) > 0 {
		msg += fmt.Sprintf(" [%s]", strings.Join(o.TagNames(), ", "))
	}
	if failed := len(o.Placements.Failed()); failed > 0 {
		msg += fmt.Sprintf(" (%d placements failed)", failed)
	}
	return msg
}

func (o *Success) TagNames() []string {
	names := make([]string, 0, len(o.Tags))
	for _, t := range o.Tags {
		names = append(names, t.Name)
	}
	return names
}

// Failed wraps the error of the stage that stopped the download. Err
// unwraps to *backend.FetchError or *database.StorageError where relevant.
type Failed struct {
	Stage Stage
	URL   string
	Err   error
	// set when the record was persisted before the failure
	Record *model.Download
}

func (o *Failed) Status() Status { return STATUS_ERROR }

func (o *Failed) Message() string {
	msg := fmt.Sprintf("%s failed: %v", o.Stage, o.Err)
	if o.Record != nil {
		msg += fmt.Sprintf(" (stored as #%d: %s)", o.Record.Id, o.Record.Filepath)
	}
	return msg
}

func (o *Failed) Error() string { return o.Message() }

func (o *Failed) Unwrap() error { return o.Err }
