// ABOUTME: Package documentation for the routing decision logic
// ABOUTME: Describes preemption, scoring, stickiness, and the escalation override

// Package router selects a handler for each customer message.
//
// Select is a pure function of the text and the user's conversation state;
// identical inputs always produce the same Decision. Decisions are made in
// priority order: an escalation trigger phrase wins outright, a pending
// contact-info sub-dialog continues next, then a lookup-intent phrase opens
// the sub-dialog, and only then does confidence scoring run across the
// registry. Scoring ties resolve to the earlier registered handler, and the
// previous turn's handler is kept when it scores within a configured
// fraction of the best, which damps oscillation on ambiguous text.
//
// After selection, a confidence floor and a same-handler turn ceiling can
// still override the pick to the escalation handler.
package router
