package auth

// State is the controller's position in the passwordless login flow.
//
//	Unauthenticated -> ChallengeRequested -> ChallengeDelivered -> Verifying -> Authenticated
//
// Failed is entered from ChallengeRequested, ChallengeDelivered or Verifying.
// Leaving Failed requires a new RequestChallenge.
type State string

const (
	StateUnauthenticated    State = "unauthenticated"
	StateChallengeRequested State = "challenge_requested"
	StateChallengeDelivered State = "challenge_delivered"
	StateVerifying          State = "verifying"
	StateAuthenticated      State = "authenticated"
	StateFailed             State = "failed"
)

func (s State) inFlight() bool {
	return s == StateChallengeRequested || s == StateVerifying
}
