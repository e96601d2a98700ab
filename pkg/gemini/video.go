package gemini

import (
	"context"
	"fmt"

	"google.golang.org/genai"

	"github.com/haivivi/clipgen/pkg/clip"
	"github.com/haivivi/clipgen/pkg/encoding"
)

// VideoModels is the part of genai.Models used to start video jobs.
type VideoModels interface {
	GenerateVideos(ctx context.Context, model, prompt string, image *genai.Image, config *genai.GenerateVideosConfig) (*genai.GenerateVideosOperation, error)
}

// VideoOperations is the part of genai.Operations used to poll video jobs.
type VideoOperations interface {
	GetVideosOperation(ctx context.Context, op *genai.GenerateVideosOperation, config *genai.GetOperationConfig) (*genai.GenerateVideosOperation, error)
}

// VideoEndpoint implements clip.VideoEndpoint with Veo.
type VideoEndpoint struct {
	models VideoModels
	ops    VideoOperations
	model  string
}

// NewVideoEndpoint returns an endpoint that uses model, or
// DefaultVideoModel when model is empty.
func NewVideoEndpoint(models VideoModels, ops VideoOperations, model string) *VideoEndpoint {
	if model == "" {
		model = DefaultVideoModel
	}
	return &VideoEndpoint{models: models, ops: ops, model: model}
}

// Submit starts a job producing one video.
func (e *VideoEndpoint) Submit(ctx context.Context, req *clip.VideoRequest) (*clip.Operation, error) {
	cfg := &genai.GenerateVideosConfig{
		NumberOfVideos: 1,
		AspectRatio:    string(req.AspectRatio),
	}
	op, err := e.models.GenerateVideos(ctx, e.model, req.Prompt, nil, cfg)
	if err != nil {
		return nil, unwrapAPIError(err)
	}
	if op == nil {
		return nil, nil
	}
	return convertOperation(op), nil
}

// Check refreshes the job status.
func (e *VideoEndpoint) Check(ctx context.Context, op *clip.Operation) (*clip.Operation, error) {
	raw, ok := op.Raw.(*genai.GenerateVideosOperation)
	if !ok || raw == nil {
		raw = &genai.GenerateVideosOperation{Name: op.Name}
	}
	next, err := e.ops.GetVideosOperation(ctx, raw, nil)
	if err != nil {
		return nil, unwrapAPIError(err)
	}
	if next == nil {
		return nil, nil
	}
	return convertOperation(next), nil
}

func convertOperation(op *genai.GenerateVideosOperation) *clip.Operation {
	out := &clip.Operation{
		Name: op.Name,
		Done: op.Done,
		Raw:  op,
	}
	if op.Error != nil {
		code, msg := operationError(op.Error)
		out.Error = &clip.OperationError{Code: code, Message: msg}
		return out
	}
	if !op.Done || op.Response == nil {
		return out
	}
	out.Output = &clip.OperationOutput{}
	for i, gv := range op.Response.GeneratedVideos {
		if gv == nil || gv.Video == nil {
			continue
		}
		v := gv.Video
		var m *clip.Media
		switch {
		case v.URI != "":
			m = &clip.Media{URL: v.URI, ContentType: v.MIMEType}
		case len(v.VideoBytes) > 0:
			m = &clip.Media{
				URL:         encoding.NewDataURI(v.MIMEType, v.VideoBytes).String(),
				ContentType: v.MIMEType,
			}
		default:
			continue
		}
		out.Output.Content = append(out.Output.Content, clip.Part{
			Text:  fmt.Sprintf("video %d", i),
			Media: m,
		})
	}
	return out
}

var _ clip.VideoEndpoint = (*VideoEndpoint)(nil)
