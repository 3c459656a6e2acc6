package download

// Status is a job's position in the orchestration pipeline.
type Status string

const (
	StatusCreated           Status = "created"
	StatusWorkspaceAcquired Status = "workspace_acquired"
	StatusConfigSelected    Status = "config_selected"
	StatusExtracting        Status = "extracting"
	StatusResolving         Status = "resolving"
	StatusCompleted         Status = "completed"
	StatusFailed            Status = "failed"
)

// validTransitions defines allowed state transitions.
// Key is the "from" status, value is list of valid "to" statuses.
var validTransitions = map[Status][]Status{
	StatusCreated:           {StatusWorkspaceAcquired, StatusFailed},
	StatusWorkspaceAcquired: {StatusConfigSelected, StatusFailed},
	StatusConfigSelected:    {StatusExtracting, StatusFailed},
	StatusExtracting:        {StatusResolving, StatusFailed},
	StatusResolving:         {StatusCompleted, StatusFailed},
	StatusCompleted:         {}, // terminal
	StatusFailed:            {}, // terminal
}

// CanTransitionTo returns true if transitioning from s to target is valid.
func (s Status) CanTransitionTo(target Status) bool {
	for _, v := range validTransitions[s] {
		if v == target {
			return true
		}
	}
	return false
}

// IsTerminal returns true if this status has no valid outgoing transitions.
func (s Status) IsTerminal() bool {
	return s == StatusCompleted || s == StatusFailed
}
