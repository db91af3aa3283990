// Copyright 2025 Google LLC
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

package queue

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLinkedListQueue(t *testing.T) {
	q := NewLinkedListQueue[int]()

	assert.NotNil(t, q)
	assert.True(t, q.IsEmpty())
	assert.Equal(t, 0, q.Len())
}

func TestLinkedListQueue_Push(t *testing.T) {
	q := NewLinkedListQueue[int]()
	q.Push(4)
	q.Push(5)

	assert.Equal(t, 4, q.Peek())
	assert.False(t, q.IsEmpty())
}

func TestLinkedListQueue_MultiplePops(t *testing.T) {
	q := NewLinkedListQueue[int]()
	q.Push(4)
	q.Push(5)
	require.Equal(t, 4, q.Peek())

	assert.Equal(t, 4, q.Pop())
	assert.Equal(t, 5, q.Peek())
	assert.Equal(t, 5, q.Pop())
	assert.True(t, q.IsEmpty())
}

func TestLinkedListQueue_PopEmptyQueuePanics(t *testing.T) {
	assert.Panics(t, func() {
		NewLinkedListQueue[int]().Pop()
	})
}

func TestLinkedListQueue_PeekEmptyQueuePanics(t *testing.T) {
	assert.Panics(t, func() {
		NewLinkedListQueue[int]().Peek()
	})
}

func TestLinkedListQueue_Len(t *testing.T) {
	q := NewLinkedListQueue[int]()
	q.Push(4)
	q.Push(5)
	q.Push(6)
	assert.Equal(t, 3, q.Len())

	q.Pop()
	assert.Equal(t, 2, q.Len())
}
