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


// Package aggregate computes per-provider result totals for a query.
//
// The Aggregator splits a query into words and asks every requested
// provider for the result count of every word:
//   - Providers are processed concurrently, one goroutine each
//   - Words are submitted to a shared worker pool that bounds outbound calls
//   - Each provider's total is the sum of its word counts
//
// A failed provider call is logged and contributes 0 to the total. Only an
// unsupported provider identifier fails the whole request.
package aggregate
