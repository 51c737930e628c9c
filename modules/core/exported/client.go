package exported

// Status represents the status of a client
type Status string

const (
	// Grandpa is used to indicate that the light client tracks the GRANDPA
	// finality gadget of a substrate chain.
	Grandpa string = "10-grandpa"

	// Active is a status type of a client. An active client is allowed to be used.
	Active Status = "Active"

	// Frozen is a status type of a client. A frozen client is not allowed to be used.
	Frozen Status = "Frozen"

	// Unknown indicates there was an error in determining the status of a client.
	Unknown Status = "Unknown"
)

// ClientState defines the required common functions for light clients.
// It is the composition of the finality-verifier and commitment-verifier
// capabilities: one implementation exists per tracked chain family, and the
// packet-processing layer is written once against this interface.
type ClientState interface {
	ClientType() string
	GetLatestHeight() Height
	Validate() error

	// Status must return the status of the client. Only Active clients are
	// allowed to process packets.
	Status() Status

	// CheckHeaderAndUpdateState verifies the client message against the
	// trusted state and, on success, returns the advanced client state
	// together with the consensus state to associate with the message's
	// height. The receiver must not be mutated; a rejected message leaves
	// the trusted state untouched.
	CheckHeaderAndUpdateState(ClientMessage) (ClientState, ConsensusState, error)

	// VerifyMembership verifies a proof of the existence of a value at a
	// given path under the supplied commitment root.
	VerifyMembership(root Root, proof Proof, path Path, value []byte) error

	// VerifyNonMembership verifies a proof of the absence of a key at a
	// given path under the supplied commitment root.
	VerifyNonMembership(root Root, proof Proof, path Path) error
}

// ConsensusState is the state of the counterparty chain the client can use
// to verify commitment proofs at a given height.
type ConsensusState interface {
	ClientType() string

	// GetRoot returns the commitment root of the consensus state,
	// which is used for key-value pair verification.
	GetRoot() Root

	ValidateBasic() error
}

// ClientMessage is an interface used to update an IBC client.
// The update may be done by a single header, a batch of headers,
// or evidence of misbehaviour.
type ClientMessage interface {
	ClientType() string
	ValidateBasic() error
}

// Height is a wrapper interface over clienttypes.Height
// all clients must use the concrete implementation in types
type Height interface {
	IsZero() bool
	LT(Height) bool
	LTE(Height) bool
	EQ(Height) bool
	GT(Height) bool
	GTE(Height) bool
	GetRevisionNumber() uint64
	GetRevisionHeight() uint64
	Increment() Height
	Decrement() (Height, bool)
	String() string
}
