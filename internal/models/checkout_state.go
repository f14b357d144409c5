package models

type CheckoutState string

const (
	CheckoutStateDraft            CheckoutState = "DRAFT"
	CheckoutStateOrderCreated     CheckoutState = "ORDER_CREATED"
	CheckoutStatePaymentInitiated CheckoutState = "PAYMENT_INITIATED"
	CheckoutStatePaymentVerified  CheckoutState = "PAYMENT_VERIFIED"
	CheckoutStatePaymentFailed    CheckoutState = "PAYMENT_FAILED"
	CheckoutStateOrderAbandoned   CheckoutState = "ORDER_ABANDONED"
)

var checkoutTransitions = map[CheckoutState][]CheckoutState{
	CheckoutStateDraft:        {CheckoutStateOrderCreated},
	CheckoutStateOrderCreated: {CheckoutStatePaymentInitiated},
	// an open session must fail or be abandoned before another is opened
	CheckoutStatePaymentInitiated: {
		CheckoutStatePaymentVerified,
		CheckoutStatePaymentFailed,
		CheckoutStateOrderAbandoned,
	},
	// a failed or abandoned payment may be retried on the same order
	CheckoutStatePaymentFailed:   {CheckoutStatePaymentInitiated, CheckoutStatePaymentVerified},
	CheckoutStateOrderAbandoned:  {CheckoutStatePaymentInitiated, CheckoutStatePaymentVerified},
	CheckoutStatePaymentVerified: {},
}

func (s CheckoutState) CanTransitionTo(next CheckoutState) bool {
	for _, allowed := range checkoutTransitions[s] {
		if allowed == next {
			return true
		}
	}

	return false
}

var checkoutStates = []CheckoutState{
	CheckoutStateDraft,
	CheckoutStateOrderCreated,
	CheckoutStatePaymentInitiated,
	CheckoutStatePaymentVerified,
	CheckoutStatePaymentFailed,
	CheckoutStateOrderAbandoned,
}

// SourcesOf lists every state allowed to move to next. Persisted transitions
// use it as their compare-and-set guard.
func SourcesOf(next CheckoutState) []CheckoutState {
	var sources []CheckoutState

	for _, s := range checkoutStates {
		if s.CanTransitionTo(next) {
			sources = append(sources, s)
		}
	}

	return sources
}

func (s CheckoutState) IsTerminal() bool {
	return s == CheckoutStatePaymentVerified
}

func (s CheckoutState) String() string {
	return string(s)
}
