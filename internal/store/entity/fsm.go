package entity

// TransitionTable maps a document status to the statuses it may move to.
// Every mutating operation checks legality here once, at its entry point,
// instead of re-deriving it inline.
type TransitionTable map[string][]string

// CanTransition reports whether from -> to is an allowed move in the table.
func (t TransitionTable) CanTransition(from, to string) bool {
	for _, next := range t[from] {
		if next == to {
			return true
		}
	}
	return false
}

// RequirementTransitions: forward-only lifecycle with a cancel branch from
// every non-terminal state.
var RequirementTransitions = TransitionTable{
	RequirementStatusDraft:              {RequirementStatusSubmitted, RequirementStatusPendingApproval, RequirementStatusCancelled},
	RequirementStatusSubmitted:          {RequirementStatusPendingApproval, RequirementStatusCancelled},
	RequirementStatusPendingApproval:    {RequirementStatusApproved, RequirementStatusRejected, RequirementStatusCancelled},
	RequirementStatusApproved:           {RequirementStatusQuotationsReceived, RequirementStatusPOCreated, RequirementStatusCancelled},
	RequirementStatusQuotationsReceived: {RequirementStatusPOCreated, RequirementStatusCancelled},
	RequirementStatusPOCreated:          {RequirementStatusFulfilled, RequirementStatusCancelled},
}

var QuotationTransitions = TransitionTable{
	QuotationStatusReceived:    {QuotationStatusUnderReview, QuotationStatusAccepted, QuotationStatusRejected},
	QuotationStatusUnderReview: {QuotationStatusAccepted, QuotationStatusRejected},
}

var POTransitions = TransitionTable{
	POStatusDraft:             {POStatusSent, POStatusCancelled},
	POStatusSent:              {POStatusAcknowledged, POStatusPartiallyReceived, POStatusFulfilled, POStatusCancelled},
	POStatusAcknowledged:      {POStatusPartiallyReceived, POStatusFulfilled, POStatusCancelled},
	POStatusPartiallyReceived: {POStatusPartiallyReceived, POStatusFulfilled},
}

var GRNTransitions = TransitionTable{
	GRNStatusReceived:          {GRNStatusPendingInspection, GRNStatusApproved, GRNStatusRejected},
	GRNStatusPendingInspection: {GRNStatusInspected, GRNStatusApproved, GRNStatusRejected},
	GRNStatusInspected:         {GRNStatusApproved, GRNStatusRejected, GRNStatusPosted},
	GRNStatusApproved:          {GRNStatusPosted},
}

// IndentTransitions preserves the observed routing exactly: submission
// fast-paths straight to pending_super_admin, and super-admin approval also
// accepts documents still sitting in the earlier states.
// TODO: product to confirm whether the pending_college_approval hop should be
// mandatory on the happy path (tracked as an open workflow question).
var IndentTransitions = TransitionTable{
	IndentStatusDraft: {
		IndentStatusSubmitted, IndentStatusPendingCollegeApproval,
		IndentStatusPendingSuperAdmin, IndentStatusApproved, IndentStatusCancelled,
	},
	IndentStatusSubmitted: {
		IndentStatusPendingCollegeApproval, IndentStatusPendingSuperAdmin,
		IndentStatusApproved, IndentStatusCancelled,
	},
	IndentStatusPendingCollegeApproval: {
		IndentStatusPendingSuperAdmin, IndentStatusApproved,
		IndentStatusRejectedByCollege, IndentStatusCancelled,
	},
	IndentStatusCollegeApproved: {
		IndentStatusPendingSuperAdmin, IndentStatusCancelled,
	},
	IndentStatusPendingSuperAdmin: {
		IndentStatusApproved, IndentStatusRejectedBySuperAdmin, IndentStatusCancelled,
	},
	IndentStatusApproved: {
		IndentStatusPartiallyFulfilled, IndentStatusFulfilled, IndentStatusCancelled,
	},
	IndentStatusPartiallyFulfilled: {
		IndentStatusPartiallyFulfilled, IndentStatusFulfilled, IndentStatusCancelled,
	},
}

var MINTransitions = TransitionTable{
	MINStatusPrepared:   {MINStatusDispatched, MINStatusInTransit, MINStatusCancelled},
	MINStatusDispatched: {MINStatusInTransit, MINStatusCancelled},
	MINStatusInTransit:  {MINStatusReceived},
}
