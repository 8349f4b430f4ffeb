package domain

import "slices"

// EntityKind names an entity that has a lifecycle.
type EntityKind string

const (
	KindCampaign      EntityKind = "campaign"
	KindCollaboration EntityKind = "collaboration"
)

type CampaignStatus string

const (
	CampaignDraft     CampaignStatus = "draft"
	CampaignActive    CampaignStatus = "active"
	CampaignPaused    CampaignStatus = "paused"
	CampaignCompleted CampaignStatus = "completed"
	CampaignCancelled CampaignStatus = "cancelled"
)

type CollaborationStatus string

const (
	CollabInvited   CollaborationStatus = "invited"
	CollabAccepted  CollaborationStatus = "accepted"
	CollabDeclined  CollaborationStatus = "declined"
	CollabActive    CollaborationStatus = "active"
	CollabCompleted CollaborationStatus = "completed"
	CollabCancelled CollaborationStatus = "cancelled"
)

// transitions maps (kind, current status) to the set of legal next statuses.
// A status missing from the inner map is unknown; an empty set is terminal.
var transitions = map[EntityKind]map[string][]string{
	KindCampaign: {
		string(CampaignDraft):     {string(CampaignActive), string(CampaignCancelled)},
		string(CampaignActive):    {string(CampaignPaused), string(CampaignCompleted), string(CampaignCancelled)},
		string(CampaignPaused):    {string(CampaignActive), string(CampaignCancelled)},
		string(CampaignCompleted): {},
		string(CampaignCancelled): {},
	},
	KindCollaboration: {
		string(CollabInvited):   {string(CollabAccepted), string(CollabDeclined)},
		string(CollabAccepted):  {string(CollabActive), string(CollabCancelled)},
		string(CollabDeclined):  {},
		string(CollabActive):    {string(CollabCompleted), string(CollabCancelled)},
		string(CollabCompleted): {},
		string(CollabCancelled): {},
	},
}

// CanTransition reports whether an entity of kind may move from current to
// target. Unknown kinds and statuses are never transitionable.
func CanTransition(kind EntityKind, current, target string) bool {
	return slices.Contains(transitions[kind][current], target)
}

// IsTerminal reports whether current has no outgoing transitions.
func IsTerminal(kind EntityKind, current string) bool {
	next, known := transitions[kind][current]
	return known && len(next) == 0
}

// CanResume is the resume precondition: the campaign must be paused. This is
// an equality check, not a table lookup; the two diverge if the table ever
// gains another source status for active.
func CanResume(current CampaignStatus) bool {
	return current == CampaignPaused
}

// Valid reports whether s is a known campaign status.
func (s CampaignStatus) Valid() bool {
	_, ok := transitions[KindCampaign][string(s)]
	return ok
}

// Valid reports whether s is a known collaboration status.
func (s CollaborationStatus) Valid() bool {
	_, ok := transitions[KindCollaboration][string(s)]
	return ok
}

// Action is a named lifecycle operation.
type Action string

const (
	ActionActivate Action = "activate"
	ActionPause    Action = "pause"
	ActionResume   Action = "resume"
	ActionComplete Action = "complete"
	ActionCancel   Action = "cancel"
	ActionAccept   Action = "accept"
	ActionDecline  Action = "decline"
	ActionStart    Action = "start"
)

var campaignActions = map[Action]CampaignStatus{
	ActionActivate: CampaignActive,
	ActionPause:    CampaignPaused,
	ActionResume:   CampaignActive,
	ActionComplete: CampaignCompleted,
	ActionCancel:   CampaignCancelled,
}

var collaborationActions = map[Action]CollaborationStatus{
	ActionAccept:   CollabAccepted,
	ActionDecline:  CollabDeclined,
	ActionStart:    CollabActive,
	ActionComplete: CollabCompleted,
	ActionCancel:   CollabCancelled,
}

// CampaignTarget returns the status a campaign action moves to.
func CampaignTarget(a Action) (CampaignStatus, bool) {
	s, ok := campaignActions[a]
	return s, ok
}

// CollaborationTarget returns the status a collaboration action moves to.
func CollaborationTarget(a Action) (CollaborationStatus, bool) {
	s, ok := collaborationActions[a]
	return s, ok
}

// CampaignActionAllowed checks a campaign action against current. Resume uses
// CanResume, every other action the transition table.
func CampaignActionAllowed(a Action, current CampaignStatus) bool {
	target, ok := campaignActions[a]
	if !ok {
		return false
	}
	if a == ActionResume {
		return CanResume(current)
	}
	return CanTransition(KindCampaign, string(current), string(target))
}

// CollaborationActionAllowed checks a collaboration action against current.
func CollaborationActionAllowed(a Action, current CollaborationStatus) bool {
	target, ok := collaborationActions[a]
	if !ok {
		return false
	}
	return CanTransition(KindCollaboration, string(current), string(target))
}
