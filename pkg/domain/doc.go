/*
Package domain contains the core domain models for the screening engine.

It defines the static catalog entities (Layers, Questions, Triggers,
Actions) and the per-assessment session State. This package is kept pure
and free of I/O or persistence concerns, following Hexagonal Architecture
principles.

# Key Entities

  - Layer: one stage of the progressive questionnaire (triage, targeted, specialized).
  - Question: a single prompt with a declared answer type and an optional gating condition.
  - Trigger: a rule that inspects one answer and escalates to another layer or fires an action.
  - Action: a side-effect surfaced to the caller (alert, schedule, resource, followup, education).
  - State: the runtime snapshot of one assessment session (current layer, answers, fired actions).
*/
package domain
