package models

import "fmt"

// JobStatus is the lifecycle state of a job posting.
type JobStatus string

const (
	JobStatusDraft  JobStatus = "DRAFT"
	JobStatusOpen   JobStatus = "OPEN"
	JobStatusClosed JobStatus = "CLOSED"
)

// JobStatuses lists every job status.
var JobStatuses = []JobStatus{JobStatusDraft, JobStatusOpen, JobStatusClosed}

func (s JobStatus) Valid() bool {
	switch s {
	case JobStatusDraft, JobStatusOpen, JobStatusClosed:
		return true
	}
	return false
}

func (s JobStatus) Label() string {
	switch s {
	case JobStatusDraft:
		return "Draft"
	case JobStatusOpen:
		return "Open"
	case JobStatusClosed:
		return "Closed"
	}
	return "Unknown"
}

// ParseJobStatus converts a raw value into a JobStatus.
func ParseJobStatus(raw string) (JobStatus, error) {
	s := JobStatus(raw)
	if !s.Valid() {
		return "", fmt.Errorf("invalid job status %q", raw)
	}
	return s, nil
}

// ApplicationStatus is the funnel stage of an application.
type ApplicationStatus string

const (
	StatusApplied   ApplicationStatus = "APPLIED"
	StatusScreening ApplicationStatus = "SCREENING"
	StatusInterview ApplicationStatus = "INTERVIEW"
	StatusOffer     ApplicationStatus = "OFFER"
	StatusHired     ApplicationStatus = "HIRED"
	StatusRejected  ApplicationStatus = "REJECTED"
)

// ApplicationStatuses lists every stage in board column order.
var ApplicationStatuses = []ApplicationStatus{
	StatusApplied,
	StatusScreening,
	StatusInterview,
	StatusOffer,
	StatusHired,
	StatusRejected,
}

// StaleStatuses are the stages considered by stale-application detection.
var StaleStatuses = []ApplicationStatus{StatusApplied, StatusScreening, StatusOffer}

func (s ApplicationStatus) Valid() bool {
	switch s {
	case StatusApplied, StatusScreening, StatusInterview, StatusOffer, StatusHired, StatusRejected:
		return true
	}
	return false
}

func (s ApplicationStatus) Label() string {
	switch s {
	case StatusApplied:
		return "Applied"
	case StatusScreening:
		return "Screening"
	case StatusInterview:
		return "Interview"
	case StatusOffer:
		return "Offer"
	case StatusHired:
		return "Hired"
	case StatusRejected:
		return "Rejected"
	}
	return "Unknown"
}

// Terminal reports whether no further stage follows s.
func (s ApplicationStatus) Terminal() bool {
	switch s {
	case StatusHired, StatusRejected:
		return true
	case StatusApplied, StatusScreening, StatusInterview, StatusOffer:
		return false
	}
	return false
}

// ParseApplicationStatus converts a raw value into an ApplicationStatus.
func ParseApplicationStatus(raw string) (ApplicationStatus, error) {
	s := ApplicationStatus(raw)
	if !s.Valid() {
		return "", fmt.Errorf("invalid application status %q", raw)
	}
	return s, nil
}
