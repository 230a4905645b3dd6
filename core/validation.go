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


package core

import "fmt"

// ValidateMaterial validates a Material according to domain rules.
//
// Validation rules:
//   - Owner must not be empty
//   - SourceKind must be valid (Document or Transcript)
//   - SourceRef must not be empty
//   - Progress must be within 0-100
//
// NOT validated (populated by the pipeline):
//   - ExtractedText (empty until the extraction stage commits)
//   - State (zero value is treated as queued by storage)
//   - ID (0 is valid from database sequences)
func ValidateMaterial(material *Material) error {
	if material == nil {
		return fmt.Errorf("%w: material is nil", ErrInvalidMaterial)
	}

	if material.Owner == "" {
		return fmt.Errorf("%w: %w", ErrInvalidMaterial, ErrEmptyOwner)
	}

	if err := ValidateSourceKind(material.SourceKind); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidMaterial, err)
	}

	if material.SourceRef == "" {
		return fmt.Errorf("%w: %w", ErrInvalidMaterial, ErrEmptySourceRef)
	}

	if material.Progress < 0 || material.Progress > 100 {
		return fmt.Errorf("%w: %w", ErrInvalidMaterial, ErrInvalidProgress)
	}

	return nil
}

// ValidateSourceKind validates that a SourceKind has a valid value.
func ValidateSourceKind(kind SourceKind) error {
	if kind != SourceKindDocument && kind != SourceKindTranscript {
		return fmt.Errorf("%w: value %d", ErrInvalidSourceKind, kind)
	}
	return nil
}

// ValidateTurn validates a ConversationTurn according to domain rules.
func ValidateTurn(turn *ConversationTurn) error {
	if turn == nil {
		return fmt.Errorf("%w: turn is nil", ErrInvalidTurnRole)
	}

	if turn.Content == "" {
		return ErrEmptyContent
	}

	return ValidateTurnRole(turn.Role)
}

// ValidateTurnRole validates that a TurnRole has a valid value.
func ValidateTurnRole(role TurnRole) error {
	if role != TurnRoleUser && role != TurnRoleAssistant {
		return fmt.Errorf("%w: value %d", ErrInvalidTurnRole, role)
	}
	return nil
}
