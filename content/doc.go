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


// Package content normalizes heterogeneous inputs (raw text, web pages,
// PDF documents) into plain text for the ingestion pipeline.
//
// A Normalizer is the boundary to the outside world: a failure here aborts
// the whole ingestion request (wrapped in ErrExtraction), in contrast to
// per-chunk oracle failures which are skipped downstream. The Registry lets
// callers swap implementations per input type, which is also how tests
// inject fakes and how deployments plug in OCR-capable PDF extraction.
package content
