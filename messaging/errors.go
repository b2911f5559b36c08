package messaging

import (
	"fmt"

	"github.com/plugrid/plugmsg-go/contracts"
)

// InvalidReplyError reports a reply construction call whose arguments
// disagree, such as status "error" with no error value. It indicates a
// programmer error at the call site, not a data error, and should be
// treated as fatal rather than recovered.
type InvalidReplyError struct {
	Status contracts.Status
	Reason string
}

func (e *InvalidReplyError) Error() string {
	return fmt.Sprintf("invalid reply (status %q): %s", e.Status, e.Reason)
}
