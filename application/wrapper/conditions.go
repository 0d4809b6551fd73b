package wrapper

import (
	"context"

	"webdriver_wrapper/domain/interfaces"
)

// visibilityOf is true once the element is displayed
func visibilityOf(el interfaces.Element) interfaces.Condition {
	return func(ctx context.Context) (bool, error) {
		return el.IsDisplayed(ctx)
	}
}

// elementToBeClickable is true once the element is displayed and enabled
func elementToBeClickable(el interfaces.Element) interfaces.Condition {
	return func(ctx context.Context) (bool, error) {
		displayed, err := el.IsDisplayed(ctx)
		if err != nil || !displayed {
			return false, err
		}
		return el.IsEnabled(ctx)
	}
}

// visibilityOfAll is true once every element is displayed in the same poll.
// An empty collection never qualifies.
func visibilityOfAll(els []interfaces.Element) interfaces.Condition {
	return func(ctx context.Context) (bool, error) {
		for _, el := range els {
			displayed, err := el.IsDisplayed(ctx)
			if err != nil || !displayed {
				return false, err
			}
		}
		return len(els) > 0, nil
	}
}
