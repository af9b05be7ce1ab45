//  Copyright (c) 2026 Uber Technologies, Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package detector

import (
	"go.uber.org/getput/engine"
	"go.uber.org/getput/util/orderedmap"
)

// recordedLookup is a lookup observed on some explored path of the routine.
type recordedLookup struct {
	key    engine.Identity
	result engine.Identity
	site   Site
}

// recorder stores the lookups of a routine, bucketed by container identity. Buckets keep the
// recording order.
type recorder struct {
	buckets *orderedmap.OrderedMap[engine.Identity, []recordedLookup]
}

func newRecorder() *recorder {
	return &recorder{buckets: orderedmap.New[engine.Identity, []recordedLookup]()}
}

// record appends a lookup to the bucket of container. Recording the same lookup again (e.g., when
// another path reaches the call site in an equal state) is a no-op.
func (r *recorder) record(container, key, result engine.Identity, site Site) {
	bucket := r.buckets.Value(container)
	for _, l := range bucket {
		if l.key == key && l.result == result && l.site.Call == site.Call {
			return
		}
	}
	r.buckets.Store(container, append(bucket, recordedLookup{key: key, result: result, site: site}))
}

// correlate returns the first lookup recorded on container with the given key.
func (r *recorder) correlate(container, key engine.Identity) (recordedLookup, bool) {
	for _, l := range r.buckets.Value(container) {
		if l.key == key {
			return l, true
		}
	}
	return recordedLookup{}, false
}
