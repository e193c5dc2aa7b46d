// Copyright 2025 Poiesic Systems
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


package ai

import "errors"

// Generation error taxonomy. This package never interprets HTTP status codes;
// it only distinguishes the ways a call can fail to yield text.
var (
	// ErrUnavailable indicates the generative service was unreachable or
	// returned a non-success response.
	ErrUnavailable = errors.New("generation service unavailable")

	// ErrRateLimited indicates the service rejected the call due to rate
	// limiting. Retry policy is a caller concern.
	ErrRateLimited = errors.New("generation service rate limited")

	// ErrMalformed indicates the service answered but the response carried no
	// usable text.
	ErrMalformed = errors.New("malformed generation response")
)
