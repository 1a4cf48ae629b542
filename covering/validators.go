package covering

import "fmt"

// validateSizes enforces N ≥ 2 and 2 ≤ K ≤ N.
func validateSizes(n, k int) error {
	if n < 2 {
		return fmt.Errorf("num_items must be ≥ 2, got %d: %w", n, ErrInvalidSize)
	}
	if k < 2 || k > n {
		return fmt.Errorf("items_per_trial must be in [2,%d], got %d: %w", n, k, ErrInvalidSize)
	}

	return nil
}

// validateAnchors checks range, uniqueness and room, in that order.
func validateAnchors(n, k int, anchors []int) error {
	seen := make(map[int]struct{}, len(anchors))
	for _, a := range anchors {
		if a < 0 || a >= n {
			return fmt.Errorf("anchor %d not in [0,%d): %w", a, n, ErrAnchorOutOfRange)
		}
		if _, dup := seen[a]; dup {
			return fmt.Errorf("anchor %d: %w", a, ErrDuplicateAnchor)
		}
		seen[a] = struct{}{}
	}
	if len(anchors) >= k {
		return fmt.Errorf("%d anchors with items_per_trial %d: %w", len(anchors), k, ErrAnchorOverflow)
	}
	// One free slot per trial means two free items can never meet.
	if len(anchors) == k-1 && n > k {
		return fmt.Errorf("%d anchors leave one free slot for %d free items: %w",
			len(anchors), n-len(anchors), ErrAnchorOverflow)
	}

	return nil
}
