package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestModuleIsValid(t *testing.T) {
	for _, m := range Modules() {
		assert.True(t, m.IsValid(), m)
	}
	assert.False(t, Module("users").IsValid())
	assert.False(t, Module("").IsValid())
}

func TestModulesOrder(t *testing.T) {
	assert.Equal(t, []Module{"accounts", "rotations", "logbook", "certificates", "cases"}, Modules())
}

func TestNewQueryLog(t *testing.T) {
	now := time.Now()
	l := NewQueryLog("log1", 3, "Ahmed", nil, 2, 15, now)

	assert.Equal(t, "log1", l.ID)
	assert.Equal(t, int64(3), l.PrincipalID)
	assert.Equal(t, "Ahmed", l.QueryText)
	assert.NotNil(t, l.Filters)
	assert.Empty(t, l.Filters)
	assert.Equal(t, 2, l.ResultCount)
	assert.Equal(t, int64(15), l.DurationMs)
	assert.Equal(t, now, l.CreatedAt)
}

func TestValidateQueryLog(t *testing.T) {
	now := time.Now()

	tests := []struct {
		name    string
		log     *QueryLog
		wantErr bool
		errMsg  string
	}{
		{
			name: "valid log",
			log:  NewQueryLog("log1", 1, "cardio", map[string]string{"status": "approved"}, 0, 0, now),
		},
		{
			name:    "nil log",
			log:     nil,
			wantErr: true,
			errMsg:  "nil",
		},
		{
			name:    "missing ID",
			log:     NewQueryLog("", 1, "cardio", nil, 0, 0, now),
			wantErr: true,
			errMsg:  "ID",
		},
		{
			name:    "missing PrincipalID",
			log:     NewQueryLog("log1", 0, "cardio", nil, 0, 0, now),
			wantErr: true,
			errMsg:  "PrincipalID",
		},
		{
			name:    "blank QueryText",
			log:     NewQueryLog("log1", 1, "   ", nil, 0, 0, now),
			wantErr: true,
			errMsg:  "QueryText",
		},
		{
			name:    "negative ResultCount",
			log:     NewQueryLog("log1", 1, "cardio", nil, -1, 0, now),
			wantErr: true,
			errMsg:  "ResultCount",
		},
		{
			name:    "negative DurationMs",
			log:     NewQueryLog("log1", 1, "cardio", nil, 0, -5, now),
			wantErr: true,
			errMsg:  "DurationMs",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateQueryLog(tt.log)
			if tt.wantErr {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.errMsg)
			} else {
				require.NoError(t, err)
			}
		})
	}
}
