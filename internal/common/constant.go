// Package common contains shared constants and sentinel errors used across
// HandtoHand components.
package common

// AccessTokenHeaderName is the gRPC metadata key used to carry the
// access token on outbound requests.
const AccessTokenHeaderName = "access_token"

// Notification fields for a new exchange proposal.
const (
	NotificationTypeExchangeProposal = "EXCHANGE_PROPOSAL"
	ProposalNotificationTitle        = "New Exchange Proposal"
	ProposalNotificationLink         = "/messages"
)
