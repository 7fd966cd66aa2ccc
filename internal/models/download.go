package models

type DownloadItem struct {
	RemotePath  string `json:"remote_path" yaml:"remote_path"`
	LocalPath   string `json:"local_path" yaml:"local_path"`
	Size        int64  `json:"size" yaml:"size"`
	TimeCreated string `json:"time_created" yaml:"time_created"`
}

type FailedItem struct {
	RemotePath string `json:"remote_path" yaml:"remote_path"`
	Error      string `json:"error" yaml:"error"`
}

type DownloadResult struct {
	Namespace        string         `json:"namespace" yaml:"namespace"`
	BucketName       string         `json:"bucket_name" yaml:"bucket_name"`
	Prefix           string         `json:"prefix" yaml:"prefix"`
	Filter           string         `json:"filter,omitempty" yaml:"filter,omitempty"`
	Destination      string         `json:"destination" yaml:"destination"`
	DryRun           bool           `json:"dry_run,omitempty" yaml:"dry_run,omitempty"`
	Items            []DownloadItem `json:"items" yaml:"items"`
	Failed           []FailedItem   `json:"failed,omitempty" yaml:"failed,omitempty"`
	Skipped          int            `json:"skipped" yaml:"skipped"`
	TotalFiles       int            `json:"total_files" yaml:"total_files"`
	TotalSizeBytes   int64          `json:"total_size_bytes" yaml:"total_size_bytes"`
	TotalSizeHuman   string         `json:"total_size_human" yaml:"total_size_human"`
	OperationTime    string         `json:"operation_time" yaml:"operation_time"`
	DownloadDuration string         `json:"download_duration" yaml:"download_duration"`
}
