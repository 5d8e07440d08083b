package validators

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	pkgerrors "github.com/angelmondragon/doccart/pkg/errors"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

type samplePayload struct {
	Fields map[string]string `json:"fields" validate:"required,max=2,dive,keys,required,endkeys,max=8"`
}

func TestDecodeJSONBody(t *testing.T) {
	req := httptest.NewRequest(http.MethodPut, "/", strings.NewReader(`{"fields":{"Name":"Ada"}}`))
	var payload samplePayload
	if err := DecodeJSONBody(req, &payload); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if payload.Fields["Name"] != "Ada" {
		t.Fatalf("unexpected payload %+v", payload)
	}
}

func TestDecodeJSONBodyRejectsUnknownAndInvalid(t *testing.T) {
	cases := map[string]string{
		"unknown field": `{"fields":{"a":"b"},"extra":1}`,
		"malformed":     `{"fields":`,
		"missing":       `{}`,
		"too long":      `{"fields":{"Name":"much too long"}}`,
	}
	for name, body := range cases {
		req := httptest.NewRequest(http.MethodPut, "/", strings.NewReader(body))
		var payload samplePayload
		err := DecodeJSONBody(req, &payload)
		if !pkgerrors.IsCode(err, pkgerrors.CodeValidation) {
			t.Fatalf("%s: expected validation error, got %v", name, err)
		}
	}
}

func TestIsJSON(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/", nil)
	req.Header.Set("Content-Type", "Application/JSON; charset=utf-8")
	if !IsJSON(req) {
		t.Fatal("expected json content type")
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	if IsJSON(req) {
		t.Fatal("form body is not json")
	}
}

func TestParseUUIDParam(t *testing.T) {
	id := uuid.New()
	withParam := func(value string) *http.Request {
		rctx := chi.NewRouteContext()
		rctx.URLParams.Add("documentID", value)
		req := httptest.NewRequest(http.MethodPost, "/", nil)
		return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
	}

	got, err := ParseUUIDParam(withParam(id.String()), "documentID")
	if err != nil || got != id {
		t.Fatalf("expected %s, got %s err=%v", id, got, err)
	}
	if _, err := ParseUUIDParam(withParam("42"), "documentID"); !pkgerrors.IsCode(err, pkgerrors.CodeValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if _, err := ParseUUIDParam(withParam(""), "documentID"); err == nil {
		t.Fatal("expected error for empty param")
	}
}

func TestFormBracketMap(t *testing.T) {
	form := url.Values{}
	form.Set("ItemQuantity[abc]", "3")
	form.Set("ItemQuantity[def]", "0")
	form.Set("ItemQuantity[]", "9")
	form.Set("Other", "x")
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	got, err := FormBracketMap(req, "ItemQuantity")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if len(got) != 2 || got["abc"] != "3" || got["def"] != "0" {
		t.Fatalf("unexpected map %v", got)
	}
}
