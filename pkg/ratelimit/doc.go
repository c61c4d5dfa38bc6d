// Package ratelimit throttles outgoing side effects such as analytics
// writes and desktop notifications.
//
// Two algorithms are provided behind the Limiter interface:
//
// Token Bucket:
//   - Fixed capacity bucket that refills after a specified period
//   - Used for notification bursts
//
// Sliding Window:
//   - Tracks calls within a moving time window
//   - Used for the analytics sink's events-per-minute budget
//
// Usage:
//
//	limiter := ratelimit.NewSlidingWindow(30, time.Minute)
//	if !limiter.Allow() {
//	    // drop the event
//	}
package ratelimit
