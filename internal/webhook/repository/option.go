package repository

type CreateLogOptions struct {
	EventType    string
	ProjectID    int64
	ChangeRef    int64
	UserName     string
	SourceBranch string
	TargetBranch string
	Payload      []byte
	RemoteAddr   string
	RequestID    string
	Processed    bool
	SkipReason   string
	ErrorMessage string
}

type ListLogsOptions struct {
	ProjectID  int64
	EventType  string
	SkipReason string
	Limit      int
	Offset     int
}
