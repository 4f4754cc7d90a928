package domain

// WorkflowRules maps each status to the statuses a board drag may move it to.
// DONE has no entry: completed items can only be reopened from the editor.
var WorkflowRules = map[Status][]Status{
	StatusBacklog:    {StatusTodo},
	StatusTodo:       {StatusBacklog, StatusInProgress},
	StatusInProgress: {StatusTodo, StatusInReview, StatusDone},
	StatusInReview:   {StatusInProgress, StatusDone},
}

// CanTransition reports whether the rule table allows from -> to
func CanTransition(from, to Status) bool {
	for _, allowed := range WorkflowRules[from] {
		if allowed == to {
			return true
		}
	}
	return false
}
