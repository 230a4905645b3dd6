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

// Package extract turns material sources into raw text.
//
// Documents are fetched from the blob store and converted according to
// their format (plain text, markdown, HTML). Transcripts are fetched from
// the caption service, preferring published caption tracks over
// auto-generated ones; when no track is available at all, a placeholder
// text is substituted so processing can still complete.
package extract
