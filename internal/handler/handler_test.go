package handler

import (
	"testing"

	json "github.com/goccy/go-json"
	"github.com/valyala/fasthttp"

	"dcf-engine/internal/model"
	"dcf-engine/internal/series"
)

const sampleModel = `{
	"segments": [
		{"end_period": 2, "kind": "constant", "expression": "100"},
		{"end_period": 4, "kind": "ode", "expression": "0.05 * y"},
		{"end_period": null, "growth": 1.02}
	],
	"discount_rate": 1.08,
	"ode_step_size": 0.01
}`

func do(t *testing.T, h *Handler, method, path, body string) *fasthttp.RequestCtx {
	t.Helper()
	var req fasthttp.Request
	req.Header.SetMethod(method)
	req.SetRequestURI(path)
	req.SetBodyString(body)

	ctx := &fasthttp.RequestCtx{}
	ctx.Init(&req, nil, nil)
	h.Serve(ctx)
	return ctx
}

func TestCalculate(t *testing.T) {
	h := New(series.DefaultOptions(), nil)
	ctx := do(t, h, "POST", "/calculate", `{"tenant_id": "acme", "model": `+sampleModel+`}`)

	if ctx.Response.StatusCode() != fasthttp.StatusOK {
		t.Fatalf("expected 200, got %d: %s", ctx.Response.StatusCode(), ctx.Response.Body())
	}
	var resp model.CalculationResponse
	if err := json.Unmarshal(ctx.Response.Body(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.CalculationMetadata.CalculationOutcome != model.OutcomeSuccess {
		t.Fatalf("expected SUCCESS, got %+v", resp.CalculationResult.Messages)
	}
	if resp.CalculationResult.Result == nil || len(resp.CalculationResult.Result.Series) != 4 {
		t.Fatal("expected a 4-period series")
	}
}

func TestCalculateDegenerateEncodesNull(t *testing.T) {
	h := New(series.DefaultOptions(), nil)
	body := `{"model": {"segments": [{"end_period": 1, "expression": "5"}, {"end_period": null, "growth": 1.05}],
		"discount_rate": 1.05, "ode_step_size": 0.1}}`
	ctx := do(t, h, "POST", "/calculate", body)

	var raw struct {
		CalculationResult struct {
			Result map[string]any `json:"result"`
		} `json:"calculation_result"`
	}
	if err := json.Unmarshal(ctx.Response.Body(), &raw); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if v, ok := raw.CalculationResult.Result["terminal_value"]; !ok || v != nil {
		t.Fatalf("expected terminal_value null, got %v", v)
	}
}

func TestCalculateRejectsBadRequests(t *testing.T) {
	h := New(series.DefaultOptions(), nil)
	tests := []struct {
		method, path, body string
		status             int
	}{
		{"GET", "/calculate", "", fasthttp.StatusMethodNotAllowed},
		{"POST", "/calculate", "{", fasthttp.StatusBadRequest},
		{"POST", "/calculate", "{}", fasthttp.StatusBadRequest},
		{"POST", "/nowhere", "{}", fasthttp.StatusNotFound},
		{"PUT", "/sessions/abc/other", "{}", fasthttp.StatusNotFound},
		{"PUT", "/sessions/abc/model", sampleModel, fasthttp.StatusNotFound},
	}
	for _, tt := range tests {
		ctx := do(t, h, tt.method, tt.path, tt.body)
		if ctx.Response.StatusCode() != tt.status {
			t.Fatalf("%s %s: expected %d, got %d", tt.method, tt.path, tt.status, ctx.Response.StatusCode())
		}
	}
}

func TestEvaluate(t *testing.T) {
	h := New(series.DefaultOptions(), nil)
	ctx := do(t, h, "POST", "/evaluate", `{"expression": "2 * t + y", "t": 3, "y": 1}`)

	var resp model.EvaluateResponse
	if err := json.Unmarshal(ctx.Response.Body(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Value != 7 || resp.Kind != model.KindODE || !resp.Exact || resp.ParseError != "" {
		t.Fatalf("unexpected response %+v", resp)
	}

	ctx = do(t, h, "POST", "/evaluate", `{"expression": "2 *", "t": 3}`)
	resp = model.EvaluateResponse{}
	json.Unmarshal(ctx.Response.Body(), &resp)
	if resp.Value != 0 || resp.ParseError == "" {
		t.Fatalf("expected a parse error and zero, got %+v", resp)
	}
}

func TestSessionRecomputesOnChange(t *testing.T) {
	h := New(series.DefaultOptions(), nil)

	ctx := do(t, h, "POST", "/sessions", "")
	if ctx.Response.StatusCode() != fasthttp.StatusCreated {
		t.Fatalf("expected 201, got %d", ctx.Response.StatusCode())
	}
	var created model.SessionResponse
	json.Unmarshal(ctx.Response.Body(), &created)
	if created.SessionID == "" {
		t.Fatal("expected a session id")
	}

	path := "/sessions/" + created.SessionID + "/model"
	var first, second model.SessionResponse
	json.Unmarshal(do(t, h, "PUT", path, sampleModel).Response.Body(), &first)
	json.Unmarshal(do(t, h, "PUT", path, sampleModel).Response.Body(), &second)

	if !first.Recomputed || first.Result == nil {
		t.Fatalf("expected the first put to compute, got %+v", first)
	}
	if second.Recomputed {
		t.Fatal("expected an unchanged model to reuse the cached result")
	}
	if second.Result == nil || second.Result.TotalDCF != first.Result.TotalDCF {
		t.Fatal("expected the cached result to be returned")
	}

	ctx = do(t, h, "DELETE", path, "")
	if ctx.Response.StatusCode() != fasthttp.StatusNoContent {
		t.Fatalf("expected 204, got %d", ctx.Response.StatusCode())
	}
}

func TestSessionUnknownIDIsNotCreated(t *testing.T) {
	h := New(series.DefaultOptions(), nil)
	for i := 0; i < 3; i++ {
		ctx := do(t, h, "PUT", "/sessions/client-chosen-"+string(rune('a'+i))+"/model", sampleModel)
		if ctx.Response.StatusCode() != fasthttp.StatusNotFound {
			t.Fatalf("expected 404, got %d", ctx.Response.StatusCode())
		}
	}
	if n := h.live.Load(); n != 0 {
		t.Fatalf("expected no sessions, got %d", n)
	}
}

func TestSessionLimit(t *testing.T) {
	h := New(series.DefaultOptions(), nil)
	h.maxSessions = 2

	var ids []string
	for i := 0; i < 2; i++ {
		var created model.SessionResponse
		json.Unmarshal(do(t, h, "POST", "/sessions", "").Response.Body(), &created)
		ids = append(ids, created.SessionID)
	}
	if ctx := do(t, h, "POST", "/sessions", ""); ctx.Response.StatusCode() != fasthttp.StatusServiceUnavailable {
		t.Fatalf("expected 503 past the limit, got %d", ctx.Response.StatusCode())
	}

	do(t, h, "DELETE", "/sessions/"+ids[0]+"/model", "")
	do(t, h, "DELETE", "/sessions/"+ids[0]+"/model", "")
	if ctx := do(t, h, "POST", "/sessions", ""); ctx.Response.StatusCode() != fasthttp.StatusCreated {
		t.Fatalf("expected a freed slot to be reusable, got %d", ctx.Response.StatusCode())
	}
	if ctx := do(t, h, "POST", "/sessions", ""); ctx.Response.StatusCode() != fasthttp.StatusServiceUnavailable {
		t.Fatalf("expected a repeated delete to free only one slot, got %d", ctx.Response.StatusCode())
	}
}

func TestCalculateDiscountOutOfRange(t *testing.T) {
	h := New(series.DefaultOptions(), nil)
	body := `{"model": {"segments": [{"end_period": 1100, "kind": "constant", "expression": "1"},
		{"end_period": null, "growth": 1.0}], "discount_rate": 0.5, "ode_step_size": 0.1}}`
	ctx := do(t, h, "POST", "/calculate", body)

	if ctx.Response.StatusCode() != fasthttp.StatusOK {
		t.Fatalf("expected 200, got %d: %s", ctx.Response.StatusCode(), ctx.Response.Body())
	}
	var resp model.CalculationResponse
	if err := json.Unmarshal(ctx.Response.Body(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.CalculationMetadata.CalculationOutcome != model.OutcomeFailure {
		t.Fatalf("expected FAILURE, got %s", resp.CalculationMetadata.CalculationOutcome)
	}
	msgs := resp.CalculationResult.Messages
	if len(msgs) == 0 || msgs[0].Code != "DISCOUNT_OUT_OF_RANGE" {
		t.Fatalf("expected DISCOUNT_OUT_OF_RANGE, got %+v", msgs)
	}
}

func TestEditNames(t *testing.T) {
	h := New(series.DefaultOptions(), nil)
	var names []string
	json.Unmarshal(do(t, h, "GET", "/edits", "").Response.Body(), &names)
	if len(names) == 0 {
		t.Fatal("expected registered edit names")
	}
}
