package ai

import "errors"

// ErrEmptyReply indicates the provider answered without any choices/content.
var ErrEmptyReply = errors.New("ai provider returned an empty reply")
