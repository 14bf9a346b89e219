package models

import "time"

// Feedback is one participant's review of the other after a completed exchange.
type Feedback struct {
	ID                 string
	ExchangeID         string
	FromUserID         string
	ToUserID           string
	WouldExchangeAgain bool
	Comment            string
	CreatedAt          time.Time
}
