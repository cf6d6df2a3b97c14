package v1

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jasstafel/jass-api/internal/service"
)

func TestToRespErr(t *testing.T) {
	tests := []struct {
		err        error
		wantStatus int
		wantMsg    string
	}{
		{
			err:        fmt.Errorf("s.repo.FindByIdentifier -> r.dao.FindByIdentifier -> %w", service.ErrPlayerNotFound),
			wantStatus: http.StatusNotFound,
			wantMsg:    service.ErrPlayerNotFound.Error(),
		},
		{
			err:        fmt.Errorf("s.repo.Insert -> %w", service.ErrNicknameExists),
			wantStatus: http.StatusConflict,
			wantMsg:    service.ErrNicknameExists.Error(),
		},
		{
			err:        service.ErrNotGroupAdmin,
			wantStatus: http.StatusForbidden,
			wantMsg:    service.ErrNotGroupAdmin.Error(),
		},
		{
			err:        fmt.Errorf("%w: unknown farbe %q", service.ErrInvalidFarbeSetting, "Trumpf"),
			wantStatus: http.StatusBadRequest,
			wantMsg:    `invalid farbe setting: unknown farbe "Trumpf"`,
		},
		{
			err:        fmt.Errorf("s.repo.AddPlayer -> %w", service.ErrPlayerAlreadyMember),
			wantStatus: http.StatusConflict,
			wantMsg:    service.ErrPlayerAlreadyMember.Error(),
		},
		{
			err:        fmt.Errorf("%w: %q", service.ErrUnknownFarbe, "Trumpf"),
			wantStatus: http.StatusBadRequest,
			wantMsg:    `unknown farbe: "Trumpf"`,
		},
		{
			err:        fmt.Errorf("s.groups.FindByID -> %w", service.ErrNotGroupMember),
			wantStatus: http.StatusForbidden,
			wantMsg:    service.ErrNotGroupMember.Error(),
		},
		{
			err:        errors.New("pq: connection refused"),
			wantStatus: http.StatusInternalServerError,
			wantMsg:    "something went wrong",
		},
	}

	for _, tt := range tests {
		t.Run(tt.err.Error(), func(t *testing.T) {
			got := toRespErr(tt.err, "HandleX -> h.svc.Y")

			assert.Equal(t, tt.wantStatus, got.HTTPStatusCode)
			assert.Equal(t, tt.wantMsg, got.ErrorMsg)
		})
	}
}

func TestToRespErr_InternalKeepsCause(t *testing.T) {
	cause := errors.New("pq: connection refused")

	got := toRespErr(cause, "HandleX -> h.svc.Y")

	assert.ErrorIs(t, got, cause)
	assert.Contains(t, errors.Unwrap(got).Error(), "HandleX -> h.svc.Y")
}
