// Package pulse provides a delay queue for synaptic delivery. In the base
// contract every edge has delay=1 and a spike fired at tick t reaches its
// target's pending_input at tick t+1 with no intermediate bookkeeping. This
// package exists for the optional extension (spec §9) where an edge's
// delay_slots > 1: a spike must wait in flight for several ticks before it
// is delivered.
package pulse

import "github.com/hd220/spikenet/common"

// Delivery is a single in-flight spike effect scheduled to land on a target
// neuron's pending_input at ArrivalTick.
type Delivery struct {
	Target      common.NeuronID
	Value       common.Potential
	ArrivalTick common.Tick
}

// Queue holds deliveries keyed by arrival tick so Network.Tick can drain
// exactly the deliveries due "now" without scanning the whole in-flight set
// every step.
type Queue struct {
	byTick map[common.Tick][]Delivery
}

// NewQueue returns an empty delay queue.
func NewQueue() *Queue {
	return &Queue{byTick: make(map[common.Tick][]Delivery)}
}

// Schedule enqueues a delivery of value to target, arriving delay ticks
// after currentTick (delay=1 means "visible on the very next tick").
func (q *Queue) Schedule(currentTick common.Tick, target common.NeuronID, value common.Potential, delay int) {
	if delay < 1 {
		delay = 1
	}
	arrival := currentTick + common.Tick(delay)
	q.byTick[arrival] = append(q.byTick[arrival], Delivery{Target: target, Value: value, ArrivalTick: arrival})
}

// Drain returns and removes all deliveries scheduled to arrive at tick.
func (q *Queue) Drain(tick common.Tick) []Delivery {
	due := q.byTick[tick]
	delete(q.byTick, tick)
	return due
}

// Len reports the number of ticks with still-pending deliveries, for tests
// and diagnostics.
func (q *Queue) Len() int {
	return len(q.byTick)
}
