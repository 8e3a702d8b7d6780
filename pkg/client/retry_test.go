package client

import (
	"testing"
	"time"
)

func TestRetryPolicy_Backoff(t *testing.T) {
	policy := RetryPolicy{
		MaxAttempts: 5,
		BaseBackoff: 1 * time.Second,
		MaxBackoff:  30 * time.Second,
	}

	tests := []struct {
		name    string
		attempt int
		want    time.Duration
	}{
		{name: "first retry", attempt: 0, want: 1 * time.Second},
		{name: "second retry", attempt: 1, want: 2 * time.Second},
		{name: "third retry", attempt: 2, want: 4 * time.Second},
		{name: "growth is capped", attempt: 10, want: 30 * time.Second},
		{name: "overflow is capped", attempt: 62, want: 30 * time.Second},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := policy.backoff(tt.attempt); got != tt.want {
				t.Errorf("backoff(%d) = %v, want %v", tt.attempt, got, tt.want)
			}
		})
	}
}

func TestRetryPolicy_RetryDelay(t *testing.T) {
	policy := DefaultRetryPolicy()
	now := time.Unix(1700000000, 0)

	tests := []struct {
		name    string
		err     *APIError
		attempt int
		want    time.Duration
	}{
		{
			name:    "rate limit waits until reset",
			err:     &APIError{Kind: KindRateLimit, ResetAt: now.Unix() + 90},
			attempt: 0,
			want:    90 * time.Second,
		},
		{
			name:    "rate limit with past reset waits zero",
			err:     &APIError{Kind: KindRateLimit, ResetAt: now.Unix() - 10},
			attempt: 0,
			want:    0,
		},
		{
			name:    "rate limit without reset uses backoff",
			err:     &APIError{Kind: KindRateLimit},
			attempt: 1,
			want:    2 * time.Second,
		},
		{
			name:    "server error uses backoff",
			err:     &APIError{Kind: KindGeneric, StatusCode: 500},
			attempt: 0,
			want:    1 * time.Second,
		},
		{
			name:    "network error uses backoff",
			err:     NetworkError(nil),
			attempt: 2,
			want:    4 * time.Second,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := policy.retryDelay(tt.err, tt.attempt, now); got != tt.want {
				t.Errorf("retryDelay() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestDefaultRetryPolicy(t *testing.T) {
	policy := DefaultRetryPolicy()
	if policy.MaxAttempts != 3 {
		t.Errorf("MaxAttempts = %d, want 3", policy.MaxAttempts)
	}
	if policy.BaseBackoff != 1*time.Second {
		t.Errorf("BaseBackoff = %v, want 1s", policy.BaseBackoff)
	}
	if policy.MaxBackoff != 30*time.Second {
		t.Errorf("MaxBackoff = %v, want 30s", policy.MaxBackoff)
	}
}
