package domain

// SignalKind tags the relayed message kinds. Payloads are opaque to the
// relay; offer/answer/candidate carry the peers' negotiation blobs and chat
// carries free-form text.
type SignalKind string

const (
	SignalOffer     SignalKind = "offer"
	SignalAnswer    SignalKind = "answer"
	SignalCandidate SignalKind = "candidate"
	SignalChat      SignalKind = "chat"
)

func ParseSignalKind(s string) (SignalKind, bool) {
	switch SignalKind(s) {
	case SignalOffer, SignalAnswer, SignalCandidate, SignalChat:
		return SignalKind(s), true
	default:
		return "", false
	}
}
