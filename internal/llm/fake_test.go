package llm

import "context"

// fakeGenerator returns canned responses in order, recording each request.
type fakeGenerator struct {
	responses []*Response
	err       error
	requests  []Request
}

func (f *fakeGenerator) Generate(_ context.Context, req Request) (*Response, error) {
	f.requests = append(f.requests, req)
	if f.err != nil {
		return nil, f.err
	}
	resp := f.responses[0]
	if len(f.responses) > 1 {
		f.responses = f.responses[1:]
	}
	return resp, nil
}

func (f *fakeGenerator) Close() error { return nil }

// textResponse builds a single-candidate response whose primary text is text.
func textResponse(text string) *Response {
	return &Response{
		PrimaryText: text,
		Candidates:  []Candidate{{TextFragments: []string{text}}},
	}
}
