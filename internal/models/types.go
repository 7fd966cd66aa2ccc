package models

import "time"

// RemoteObject is one report file listed from the usage report bucket.
type RemoteObject struct {
	Name        string    `json:"name" yaml:"name"`
	TimeCreated time.Time `json:"time_created" yaml:"time_created"`
	Size        int64     `json:"size" yaml:"size"`
}

type ListResult struct {
	Namespace      string         `json:"namespace" yaml:"namespace"`
	BucketName     string         `json:"bucket_name" yaml:"bucket_name"`
	Prefix         string         `json:"prefix" yaml:"prefix"`
	Objects        []RemoteObject `json:"objects" yaml:"objects"`
	ObjectCount    int            `json:"object_count" yaml:"object_count"`
	TotalSizeBytes int64          `json:"total_size_bytes" yaml:"total_size_bytes"`
	TotalSizeHuman string         `json:"total_size_human" yaml:"total_size_human"`
	OperationTime  string         `json:"operation_time" yaml:"operation_time"`
}

type ErrorResponse struct {
	Error     string `json:"error"`
	Code      string `json:"code"`
	Timestamp string `json:"timestamp"`
	Command   string `json:"command"`
}
