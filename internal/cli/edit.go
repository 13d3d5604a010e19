package cli

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/yaklabco/conlog/internal/configloader"
	"github.com/yaklabco/conlog/internal/logging"
	"github.com/yaklabco/conlog/pkg/config"
	"github.com/yaklabco/conlog/pkg/engine"
	"github.com/yaklabco/conlog/pkg/fix"
	"github.com/yaklabco/conlog/pkg/insert"
	"github.com/yaklabco/conlog/pkg/reporter"
	"github.com/yaklabco/conlog/pkg/source"
)

// maxRequestSize bounds one line of a streamed request.
const maxRequestSize = 64 << 20

var (
	errUnknownAction = errors.New("unknown action")
	errOutOfRange    = errors.New("offset out of range")
)

// editRequest is one editor request.
type editRequest struct {
	// Action is insert, scope or remove.
	Action string `json:"action"`

	// Text is the full document content.
	Text string `json:"text"`

	// Offset is the cursor, or the selection anchor for insert.
	Offset int `json:"offset"`

	// SelectionEnd is the active end of the selection.
	SelectionEnd *int `json:"selection_end,omitempty"`

	// Path names the document for language detection.
	Path string `json:"path,omitempty"`

	Config *editConfig `json:"config,omitempty"`
}

// editConfig carries per-request settings layered over the loaded
// configuration.
type editConfig struct {
	LogPrefix     *string  `json:"log_prefix,omitempty"`
	IncludeAll    *bool    `json:"include_all,omitempty"`
	IncludeWarn   *bool    `json:"include_warn,omitempty"`
	IncludeError  *bool    `json:"include_error,omitempty"`
	IncludeDebug  *bool    `json:"include_debug,omitempty"`
	IncludeInline *bool    `json:"include_inline,omitempty"`
	Methods       []string `json:"methods,omitempty"`
}

func (c *editConfig) toConfig() *config.Config {
	if c == nil {
		return nil
	}
	return &config.Config{
		LogPrefix:     c.LogPrefix,
		IncludeAll:    c.IncludeAll,
		IncludeWarn:   c.IncludeWarn,
		IncludeError:  c.IncludeError,
		IncludeDebug:  c.IncludeDebug,
		IncludeInline: c.IncludeInline,
		Methods:       c.Methods,
	}
}

// editResponse is the reply to an editRequest.
type editResponse struct {
	reporter.EditOutput

	Error string `json:"error,omitempty"`
}

func newEditCommand() *cobra.Command {
	var stream bool

	cmd := &cobra.Command{
		Use:   "edit",
		Short: "Answer editor requests as JSON",
		Long: `Read a JSON request on stdin and write the resulting edits as JSON on
stdout. This is the integration point for editor plugins.

A request looks like:

  {"action": "insert", "text": "...", "offset": 10, "selection_end": 14,
   "path": "app.ts", "config": {"log_prefix": "DBG"}}

Actions are insert, scope and remove. Offsets are bytes. With --stream,
requests and responses are newline-delimited and the command runs until
stdin is closed.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			base, _, err := loadConfig(cmd, nil)
			if err != nil {
				return err
			}

			handler := &editHandler{base: base, engine: engine.New()}
			if stream {
				return handler.serve(commandContext(cmd), cmd.InOrStdin(), cmd.OutOrStdout())
			}
			return handler.once(commandContext(cmd), cmd.InOrStdin(), cmd.OutOrStdout())
		},
	}

	cmd.Flags().BoolVar(&stream, "stream", false, "serve newline-delimited requests until EOF")

	return cmd
}

type editHandler struct {
	base   *config.Config
	engine *engine.Engine
}

// once answers a single request.
func (h *editHandler) once(ctx context.Context, r io.Reader, w io.Writer) error {
	var req editRequest
	if err := json.NewDecoder(r).Decode(&req); err != nil {
		err = fmt.Errorf("decode request: %w", err)
		if writeErr := writeResponse(w, failure(err)); writeErr != nil {
			return writeErr
		}
		return fmt.Errorf("%w: %w", ErrUsage, err)
	}

	resp, err := h.respond(ctx, req)
	if writeErr := writeResponse(w, resp); writeErr != nil {
		return writeErr
	}
	if err != nil {
		return fmt.Errorf("%w: %w", ErrUsage, err)
	}
	return nil
}

// serve answers newline-delimited requests until r is exhausted. Bad
// requests are answered with an error and do not end the session.
func (h *editHandler) serve(ctx context.Context, r io.Reader, w io.Writer) error {
	logger := logging.FromContext(ctx)
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxRequestSize)

	for scanner.Scan() {
		select {
		case <-ctx.Done():
			return fmt.Errorf("edit session cancelled: %w", ctx.Err())
		default:
		}

		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}

		var resp editResponse
		var req editRequest
		if err := json.Unmarshal(line, &req); err != nil {
			resp = failure(fmt.Errorf("decode request: %w", err))
		} else {
			var err error
			resp, err = h.respond(ctx, req)
			if err != nil {
				logger.Debug("request failed", logging.FieldAction, req.Action, logging.FieldError, err)
			}
		}

		if err := writeResponse(w, resp); err != nil {
			return err
		}
	}

	if err := scanner.Err(); err != nil {
		return fmt.Errorf("read requests: %w", err)
	}
	return nil
}

// respond computes the edits for req. On failure the response carries the
// error text and an empty edit list.
func (h *editHandler) respond(ctx context.Context, req editRequest) (editResponse, error) {
	path := req.Path
	if path == "" {
		path = stdinPath
	}

	edits, err := h.edits(ctx, path, req)
	resp := editResponse{EditOutput: reporter.NewEditOutput(reporter.EditSet{
		Action: req.Action,
		Path:   req.Path,
		Edits:  edits,
	})}
	if err != nil {
		resp.Error = err.Error()
	}
	return resp, err
}

func (h *editHandler) edits(ctx context.Context, path string, req editRequest) ([]fix.TextEdit, error) {
	cfg := configloader.MergeAll(h.base, req.Config.toConfig())
	if validation := configloader.Validate(cfg); !validation.Valid() {
		return nil, &validation.Errors[0]
	}

	doc := source.New(path, []byte(req.Text))
	if req.Offset < 0 || req.Offset > doc.Len() {
		return nil, fmt.Errorf("%w: %d", errOutOfRange, req.Offset)
	}

	switch req.Action {
	case "insert":
		sel := source.Cursor(req.Offset)
		if req.SelectionEnd != nil {
			if *req.SelectionEnd < 0 || *req.SelectionEnd > doc.Len() {
				return nil, fmt.Errorf("%w: selection_end %d", errOutOfRange, *req.SelectionEnd)
			}
			sel.Active = *req.SelectionEnd
		}
		res, ok := insert.AtSelection(doc, sel, cfg.Prefix())
		if !ok {
			return nil, nil
		}
		return fix.PrepareEdits([]fix.TextEdit{res.Edit}, doc.Len())

	case "scope":
		return fix.PrepareEdits(insert.Scope(doc, req.Offset, cfg.Prefix()).Edits, doc.Len())

	case "remove":
		result, err := h.engine.Process(ctx, path, doc.Content, cfg)
		if err != nil {
			return nil, err
		}
		return result.Edits, nil

	default:
		return nil, fmt.Errorf("%w %q; must be insert, scope or remove", errUnknownAction, req.Action)
	}
}

// failure answers a request that could not be decoded.
func failure(err error) editResponse {
	return editResponse{
		EditOutput: reporter.NewEditOutput(reporter.EditSet{}),
		Error:      err.Error(),
	}
}

func writeResponse(w io.Writer, resp editResponse) error {
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		return fmt.Errorf("%w: write response: %w", ErrInternal, err)
	}
	return nil
}
