package model

// TaskStats summarizes the current state of the task collection.
type TaskStats struct {
	Total      int            `json:"total"`
	Pending    int            `json:"pending"`
	Approved   int            `json:"approved"`
	Rejected   int            `json:"rejected"`
	InReview   int            `json:"inReview"`
	ByCategory map[string]int `json:"byCategory"`
	ByAgent    map[string]int `json:"byAgent"`
}

// ApprovalStats summarizes the transition history ledger.
// ApprovalRate is a percentage; zero when the ledger is empty.
type ApprovalStats struct {
	TotalChanges int     `json:"totalChanges"`
	Approvals    int     `json:"approvals"`
	Rejections   int     `json:"rejections"`
	Reviews      int     `json:"reviews"`
	ApprovalRate float64 `json:"approvalRate"`
}
