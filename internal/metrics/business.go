package metrics

// RecordSprintTransition counts one scheduler state change
func (m *Metrics) RecordSprintTransition(from, to string) {
	m.safeExecute("RecordSprintTransition", func() {
		m.SprintTransitionsTotal.WithLabelValues(from, to).Inc()
	})
}

// ObserveSchedulerRun records how long a tick took
func (m *Metrics) ObserveSchedulerRun(seconds float64) {
	m.safeExecute("ObserveSchedulerRun", func() {
		m.SchedulerRunDuration.Observe(seconds)
	})
}

// RecordStatusChange counts a status change attempt by path and result
// (accepted, rejected or unchanged)
func (m *Metrics) RecordStatusChange(path, result string) {
	m.safeExecute("RecordStatusChange", func() {
		m.StatusChangesTotal.WithLabelValues(path, result).Inc()
	})
}

// RecordMembershipChanges counts items included into and excluded from a sprint
func (m *Metrics) RecordMembershipChanges(included, excluded int) {
	m.safeExecute("RecordMembershipChanges", func() {
		m.MembershipChangesTotal.WithLabelValues("include").Add(float64(included))
		m.MembershipChangesTotal.WithLabelValues("exclude").Add(float64(excluded))
	})
}

// RecordSoftDelete counts a delete or restore of an epic or sprint
func (m *Metrics) RecordSoftDelete(entity, operation string) {
	m.safeExecute("RecordSoftDelete", func() {
		m.SoftDeletesTotal.WithLabelValues(entity, operation).Inc()
	})
}

// RecordNotification counts one dispatch attempt on a channel
func (m *Metrics) RecordNotification(channel string, err error) {
	m.safeExecute("RecordNotification", func() {
		result := "success"
		if err != nil {
			result = "failure"
		}
		m.NotificationsTotal.WithLabelValues(channel, result).Inc()
	})
}

// IncrementBoardCreated increments board creation counter
func (m *Metrics) IncrementBoardCreated() {
	m.safeExecute("IncrementBoardCreated", func() {
		m.BoardCreatedTotal.Inc()
	})
}

// IncrementWorkItemCreated increments work item creation counter
func (m *Metrics) IncrementWorkItemCreated() {
	m.safeExecute("IncrementWorkItemCreated", func() {
		m.WorkItemCreatedTotal.Inc()
	})
}

// SetBoardsTotal sets total boards gauge
func (m *Metrics) SetBoardsTotal(count int64) {
	m.safeExecute("SetBoardsTotal", func() {
		m.BoardsTotal.Set(float64(count))
	})
}

// SetActiveSprintsTotal sets active sprints gauge
func (m *Metrics) SetActiveSprintsTotal(count int64) {
	m.safeExecute("SetActiveSprintsTotal", func() {
		m.ActiveSprintsTotal.Set(float64(count))
	})
}

// SetOpenWorkItemsTotal sets open work items gauge
func (m *Metrics) SetOpenWorkItemsTotal(count int64) {
	m.safeExecute("SetOpenWorkItemsTotal", func() {
		m.OpenWorkItemsTotal.Set(float64(count))
	})
}
