package apiclient

import "fmt"

// attemptState tracks one Send call:
//
//	Initial -> AwaitingResponse -> Success | Failed
//	Failed -> RefreshingAuth -> Retrying -> Success | Failed
//	RefreshingAuth -> Failed (refresh impossible or failed)
//
// Success is always terminal; Failed is terminal once the call has been
// retried or refresh is not applicable.
type attemptState int

const (
	stateInitial attemptState = iota
	stateAwaitingResponse
	stateSuccess
	stateFailed
	stateRefreshingAuth
	stateRetrying
)

var stateNames = map[attemptState]string{
	stateInitial:          "initial",
	stateAwaitingResponse: "awaiting_response",
	stateSuccess:          "success",
	stateFailed:           "failed",
	stateRefreshingAuth:   "refreshing_auth",
	stateRetrying:         "retrying",
}

func (s attemptState) String() string {
	if name, ok := stateNames[s]; ok {
		return name
	}
	return fmt.Sprintf("state(%d)", int(s))
}

var allowedTransitions = map[attemptState][]attemptState{
	stateInitial:          {stateAwaitingResponse},
	stateAwaitingResponse: {stateSuccess, stateFailed},
	stateFailed:           {stateRefreshingAuth},
	stateRefreshingAuth:   {stateRetrying, stateFailed},
	stateRetrying:         {stateSuccess, stateFailed},
}

// attempt is the per-call mutable state; the Request itself stays untouched.
type attempt struct {
	req       *Request
	body      *encodedBody
	requestID string

	state   attemptState
	history []attemptState
	retried bool

	// authorization overrides the Authorization header on the retry
	authorization string
	// anonymous calls (the refresh exchange) carry no stored credentials
	anonymous bool
}

func newAttempt(req *Request, body *encodedBody, requestID string) *attempt {
	return &attempt{
		req:       req,
		body:      body,
		requestID: requestID,
		state:     stateInitial,
		history:   []attemptState{stateInitial},
	}
}

func (a *attempt) canMove(next attemptState) bool {
	for _, s := range allowedTransitions[a.state] {
		if s == next {
			return true
		}
	}
	return false
}

// to moves the state machine. An illegal move is a programming error.
func (a *attempt) to(next attemptState) {
	if !a.canMove(next) || (next == stateRefreshingAuth && a.retried) {
		panic(fmt.Sprintf("apiclient: illegal transition %s -> %s", a.state, next))
	}
	if next == stateRefreshingAuth {
		a.retried = true
	}
	a.state = next
	a.history = append(a.history, next)
}

// begin moves into the state that precedes a network round trip.
func (a *attempt) begin() {
	if a.state == stateInitial {
		a.to(stateAwaitingResponse)
	}
}
