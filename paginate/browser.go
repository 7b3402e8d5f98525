package paginate

import (
	"context"

	"github.com/pevans/newsorder/discovery"
)

// Browser is the page-automation collaborator the controller drives. The
// rendered content is the browser's current page. discovery.Session is the
// HTTP implementation.
type Browser interface {
	LoadPage(ctx context.Context, url string) error
	ExtractRows(ctx context.Context) ([]discovery.RawRow, error)
	IsControlVisible(ctx context.Context, selector string) (bool, error)
	ActivateControl(ctx context.Context, selector string) error
	CaptureScreenshot(ctx context.Context, path string) error
}

var _ Browser = (*discovery.Session)(nil)
