package handlers

import (
	"context"
	"errors"
	"io"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type closeRecorder struct {
	closed bool
}

func (r *closeRecorder) Read(p []byte) (int, error) { return 0, io.EOF }
func (r *closeRecorder) Close() error               { r.closed = true; return nil }

func TestFinishPushClosesBodyOnError(t *testing.T) {
	body := &closeRecorder{}
	resp := &http.Response{StatusCode: http.StatusInternalServerError, Body: body}

	finishPush(context.Background(), primitive.NewObjectID(), resp, errors.New("push rejected"))
	assert.True(t, body.closed)
}

func TestFinishPushClosesBodyOnSuccess(t *testing.T) {
	body := &closeRecorder{}
	resp := &http.Response{StatusCode: http.StatusCreated, Body: body}

	finishPush(context.Background(), primitive.NewObjectID(), resp, nil)
	assert.True(t, body.closed)
}

func TestFinishPushNilResponse(t *testing.T) {
	assert.NotPanics(t, func() {
		finishPush(context.Background(), primitive.NewObjectID(), nil, errors.New("no response"))
	})
}
