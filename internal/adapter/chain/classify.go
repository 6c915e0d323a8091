package chain

import (
	"errors"
	"strings"

	"loothound/internal/app/ports"
)

// The settlement substrate has no structured error codes; gateway and
// contract failures arrive as free text. Classification happens here, at
// the writer boundary, so the run loop only ever sees WriteError kinds.
var classifierRules = []struct {
	needle string
	kind   ports.WriteErrorKind
}{
	{"randomness not fulfilled", ports.WriteRandomnessPending},
	{"randomness not yet", ports.WriteRandomnessPending},
	{"vrf", ports.WriteRandomnessPending},
	{"market is closed", ports.WriteMarketClosed},
	{"market closed", ports.WriteMarketClosed},
	{"not in battle", ports.WriteNotInBattle},
	{"no beast", ports.WriteNotInBattle},
	{"execution reverted", ports.WriteRejected},
	{"rejected by contract", ports.WriteRejected},
}

func ClassifyKind(message string) ports.WriteErrorKind {
	lowered := strings.ToLower(message)
	for _, rule := range classifierRules {
		if strings.Contains(lowered, rule.needle) {
			return rule.kind
		}
	}
	return ports.WriteUnclassified
}

// WrapWriteError turns any submission failure into a classified
// WriteError, preserving the upstream text verbatim.
func WrapWriteError(op string, err error) error {
	if err == nil {
		return nil
	}
	kind := ports.WriteUnclassified
	if ports.IsTransient(err) {
		kind = ports.WriteTransient
	} else {
		var rpcErr *RPCError
		if errors.As(err, &rpcErr) {
			kind = ClassifyKind(rpcErr.Message)
		} else {
			kind = ClassifyKind(err.Error())
		}
	}
	return &ports.WriteError{Kind: kind, Op: op, Raw: err.Error(), Err: err}
}
