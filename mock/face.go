// Package mock provides in-memory test doubles for the hello.Face,
// hello.Signer, hello.Validator, hello.LSDB, and hello.RoutingTable
// collaborators: a dependency-free stand-in for the real network/dataplane
// layer.
package mock

import (
	"sync"

	"github.com/encodeous/nlsrcore/hello"
	"github.com/encodeous/nlsrcore/state"
)

// Face is an in-memory hello.Face double. It records every expressed
// Interest and every Put Data, and lets a test script deliver data, nacks,
// timeouts, and inbound probes by calling the Deliver* methods directly --
// there is no real transport underneath.
type Face struct {
	mu sync.Mutex

	Expressed []hello.Interest
	Put_      []hello.Data

	onData    map[string]func(hello.Interest, hello.Data)
	onNack    map[string]func(hello.Interest, hello.Nack)
	onTimeout map[string]func(hello.Interest)

	filterPrefix state.RouterName
	onInterest   hello.OnInterest
}

// NewFace builds an empty Face double.
func NewFace() *Face {
	return &Face{
		onData:    make(map[string]func(hello.Interest, hello.Data)),
		onNack:    make(map[string]func(hello.Interest, hello.Nack)),
		onTimeout: make(map[string]func(hello.Interest)),
	}
}

func (f *Face) Express(interest hello.Interest, onData func(hello.Interest, hello.Data), onNack func(hello.Interest, hello.Nack), onTimeout func(hello.Interest)) {
	f.mu.Lock()
	defer f.mu.Unlock()
	key := interest.Name.String()
	f.Expressed = append(f.Expressed, interest)
	f.onData[key] = onData
	f.onNack[key] = onNack
	f.onTimeout[key] = onTimeout
}

func (f *Face) SetFilter(prefix state.RouterName, onInterest hello.OnInterest, onRegisterOk func(state.RouterName), onRegisterFail func(state.RouterName, string)) error {
	f.mu.Lock()
	f.filterPrefix = prefix
	f.onInterest = onInterest
	f.mu.Unlock()
	onRegisterOk(prefix)
	return nil
}

func (f *Face) Put(data hello.Data) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Put_ = append(f.Put_, data)
}

// LastExpressed returns the most recently Express-ed Interest toward name,
// and whether one was ever recorded.
func (f *Face) LastExpressed(name state.RouterName) (hello.Interest, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := len(f.Expressed) - 1; i >= 0; i-- {
		if f.Expressed[i].Name.Equal(name) {
			return f.Expressed[i], true
		}
	}
	return hello.Interest{}, false
}

// DeliverData invokes the onData callback registered for the interest named
// by interest.Name, simulating a Data packet arriving as a response.
func (f *Face) DeliverData(interest hello.Interest, data hello.Data) bool {
	f.mu.Lock()
	cb, ok := f.onData[interest.Name.String()]
	f.mu.Unlock()
	if !ok {
		return false
	}
	cb(interest, data)
	return true
}

// DeliverTimeout invokes the onTimeout callback registered for interest.
func (f *Face) DeliverTimeout(interest hello.Interest) bool {
	f.mu.Lock()
	cb, ok := f.onTimeout[interest.Name.String()]
	f.mu.Unlock()
	if !ok {
		return false
	}
	cb(interest)
	return true
}

// DeliverNack invokes the onNack callback registered for interest.
func (f *Face) DeliverNack(interest hello.Interest, nack hello.Nack) bool {
	f.mu.Lock()
	cb, ok := f.onNack[interest.Name.String()]
	f.mu.Unlock()
	if !ok {
		return false
	}
	cb(interest, nack)
	return true
}

// DeliverInboundProbe invokes the registered inbound-probe filter callback,
// simulating a Hello probe arriving from a neighbour.
func (f *Face) DeliverInboundProbe(name state.RouterName, interest hello.Interest) bool {
	f.mu.Lock()
	cb := f.onInterest
	f.mu.Unlock()
	if cb == nil {
		return false
	}
	cb(name, interest)
	return true
}
