package unstructured

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"strconv"

	"github.com/go-resty/resty/v2"
	"github.com/poiesic/ragengine/ai"
	"github.com/poiesic/ragengine/core"
	"github.com/tidwall/gjson"
)

const (
	partitionPath    = "/general/v0/general"
	chunkingStrategy = "by_title"
	filesField       = "files"
)

// Structurer implements ai.Structurer against an Unstructured API server.
type Structurer struct {
	client *resty.Client
	logger *slog.Logger
}

var _ ai.Structurer = (*Structurer)(nil)

func newStructurer(config *ai.Config) (*Structurer, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	client := resty.New().
		SetBaseURL(config.StructuringEndpoint).
		SetTimeout(config.StructuringTimeout).
		SetHeader("Accept", "application/json")

	return &Structurer{
		client: client,
		logger: slog.Default().With("component", "unstructured"),
	}, nil
}

// NewStructurer creates a structuring client for the configured endpoint.
//
// Returns ai.Structurer interface to enforce abstraction.
func NewStructurer(config *ai.Config) (ai.Structurer, error) {
	return newStructurer(config)
}

// Structure uploads a document and returns its segments in service order.
func (s *Structurer) Structure(ctx context.Context, req ai.StructureRequest) ([]core.Segment, error) {
	s.logger.Debug("structuring document", "file", req.FileName, "size", len(req.Content))

	resp, err := s.client.R().
		SetContext(ctx).
		SetFileReader(filesField, req.FileName, bytes.NewReader(req.Content)).
		SetFormData(formData(req.Chunking)).
		Post(partitionPath)
	if err != nil {
		return nil, &ai.StructuringError{Message: err.Error(), Err: err}
	}
	if resp.IsError() {
		serr := &ai.StructuringError{Message: describeError(resp), Status: resp.StatusCode()}
		s.logger.Warn("structuring service rejected document",
			"file", req.FileName, "status", serr.StatusText(), "detail", serr.Message)
		return nil, serr
	}

	segments, err := parseElements(resp.Body())
	if err != nil {
		return nil, &ai.StructuringError{Message: err.Error(), Status: resp.StatusCode(), Err: err}
	}
	s.logger.Debug("structured document", "file", req.FileName, "segments", len(segments))
	return segments, nil
}

func formData(cfg core.ChunkingConfig) map[string]string {
	return map[string]string{
		"chunking_strategy":     chunkingStrategy,
		"combine_under_n_chars": strconv.Itoa(int(cfg.CombineUnderNChars)),
		"new_after_n_chars":     strconv.Itoa(int(cfg.NewAfterNChars)),
		"multipage_sections":    strconv.FormatBool(cfg.MultipageSections),
	}
}

// parseElements converts the service's element array into segments. A
// missing or non-numeric page number leaves Segment.PageNumber nil.
func parseElements(body []byte) ([]core.Segment, error) {
	if !gjson.ValidBytes(body) {
		return nil, fmt.Errorf("response is not valid JSON")
	}
	result := gjson.ParseBytes(body)
	if !result.IsArray() {
		return nil, fmt.Errorf("expected a JSON array of elements, got %s", result.Type)
	}

	elements := result.Array()
	segments := make([]core.Segment, 0, len(elements))
	for _, el := range elements {
		seg := core.Segment{Text: el.Get("text").String()}
		if page := el.Get("metadata.page_number"); page.Type == gjson.Number && page.Int() >= 0 {
			n := int32(page.Int())
			seg.PageNumber = &n
		}
		segments = append(segments, seg)
	}
	return segments, nil
}

// describeError returns the service's error detail, falling back to the raw
// body and then the status line.
func describeError(resp *resty.Response) string {
	body := resp.Body()
	if detail := gjson.GetBytes(body, "detail"); detail.Exists() {
		return detail.String()
	}
	if len(bytes.TrimSpace(body)) > 0 {
		return string(bytes.TrimSpace(body))
	}
	return resp.Status()
}
