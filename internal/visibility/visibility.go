// Package visibility decides which events and response rows a viewer may see.
package visibility

import "davet/internal/model"

// IsVisible reports whether the viewer is allowed to see the event.
// Admins see every event; everyone else must be on the visibility list.
func IsVisible(e *model.Event, viewerID int, isAdmin bool) bool {
	if isAdmin {
		return true
	}
	for _, id := range e.VisibleTo {
		if id == viewerID {
			return true
		}
	}
	return false
}

// FilterEvents narrows a list of events to those the viewer may see.
func FilterEvents(events []model.Event, viewerID int, isAdmin bool) []model.Event {
	filtered := make([]model.Event, 0, len(events))
	for i := range events {
		if IsVisible(&events[i], viewerID, isAdmin) {
			filtered = append(filtered, events[i])
		}
	}
	return filtered
}

// OwnResponses keeps only the viewer's own response rows. A non-admin viewer
// must never see other employees' answers.
func OwnResponses(responses []model.Response, viewerID int) []model.Response {
	own := make([]model.Response, 0, 1)
	for _, r := range responses {
		if r.EmployeeID == viewerID {
			own = append(own, r)
		}
	}
	return own
}
