package saga

import (
	"errors"
	"net"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// ReasonPredicate classifies a failure reason. The engine never retries a
// failed step itself; these predicates exist for callers deciding whether a
// halted workflow is worth resubmitting.
//
// Example:
//
//	transient := saga.AnyOf(
//		saga.TransientNetworkErrors(),
//		saga.TransientGRPCCodes(codes.Unavailable),
//	)
//	if run.FailedTransiently(transient) {
//		run, err = wf.Perform(ctx)
//	}
type ReasonPredicate func(error) bool

// FailedTransiently reports whether the workflow halted and its failure
// reason matches the predicate. It is false for workflows that never halted.
func (w *Workflow) FailedTransiently(pred ReasonPredicate) bool {
	return w.halted && pred != nil && pred(w.failReason)
}

// TransientGRPCCodes matches failure reasons that are gRPC statuses with one
// of the given codes.
//
// Example:
//
//	pred := saga.TransientGRPCCodes(
//		codes.Unavailable,
//		codes.ResourceExhausted,
//		codes.DeadlineExceeded,
//	)
func TransientGRPCCodes(transientCodes ...codes.Code) ReasonPredicate {
	codeMap := make(map[codes.Code]bool)
	for _, code := range transientCodes {
		codeMap[code] = true
	}

	return func(err error) bool {
		st, ok := status.FromError(err)
		if !ok {
			return false
		}
		return codeMap[st.Code()]
	}
}

// TransientHTTPStatus matches failure reasons that carry an HTTP status, via
// an HTTPStatus() int method, with one of the given codes.
//
// Example:
//
//	pred := saga.TransientHTTPStatus(
//		http.StatusTooManyRequests,    // 429
//		http.StatusServiceUnavailable, // 503
//		http.StatusGatewayTimeout,     // 504
//	)
func TransientHTTPStatus(statuses ...int) ReasonPredicate {
	statusMap := make(map[int]bool)
	for _, s := range statuses {
		statusMap[s] = true
	}

	return func(err error) bool {
		type httpStatusError interface {
			HTTPStatus() int
		}

		var httpErr httpStatusError
		if errors.As(err, &httpErr) {
			return statusMap[httpErr.HTTPStatus()]
		}
		return false
	}
}

// TransientNetworkErrors matches network, DNS and socket operation errors.
func TransientNetworkErrors() ReasonPredicate {
	return func(err error) bool {
		var netErr net.Error
		if errors.As(err, &netErr) {
			return true
		}

		var dnsErr *net.DNSError
		if errors.As(err, &dnsErr) {
			return true
		}

		var opErr *net.OpError
		return errors.As(err, &opErr)
	}
}

// Predicate combinators

// AnyOf combines predicates with OR logic: true if any predicate matches.
func AnyOf(preds ...ReasonPredicate) ReasonPredicate {
	return func(err error) bool {
		for _, pred := range preds {
			if pred(err) {
				return true
			}
		}
		return false
	}
}

// AllOf combines predicates with AND logic: true only if all predicates match.
func AllOf(preds ...ReasonPredicate) ReasonPredicate {
	return func(err error) bool {
		for _, pred := range preds {
			if !pred(err) {
				return false
			}
		}
		return true
	}
}

// Not inverts a predicate.
func Not(pred ReasonPredicate) ReasonPredicate {
	return func(err error) bool {
		return !pred(err)
	}
}
