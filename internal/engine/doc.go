// Package engine is the heartbeat of the wandering food cart: a discrete
// tick stream drives arrivals, patience decay, order admission and revenue.
package engine
