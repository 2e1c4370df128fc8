package contextkey

// key is a private type to avoid context key collisions across packages.
type key string

const (
	// InvocationID identifies one input line and every process it spawns.
	InvocationID key = "invocation_id"
	// Command holds the input line being executed.
	Command key = "command"
)
