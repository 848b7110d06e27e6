// Package mock provides test double implementations of AI service interfaces.
//
// MockStructurer and MockEmbedder stand in for ai.Structurer and ai.Embedder
// so pipeline tests run without external services.
//
// # Usage in Tests
//
//	structurer := mock.NewMockStructurer()
//	structurer.StructureFunc = func(ctx context.Context, req ai.StructureRequest) ([]core.Segment, error) {
//	    return nil, errors.New("timeout")
//	}
//
//	embedder := mock.NewMockEmbedder()
//	vector, err := embedder.Embed(ctx, "foo", provider)
//	count := embedder.CallCount()
//
// # Default Behavior
//
//   - MockStructurer: one segment per blank-line separated paragraph, page 1
//   - MockEmbedder: deterministic vectors derived from the text hash
package mock
