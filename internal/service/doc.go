// Package service contains the orchestration layer: one service per
// workflow family, each coordinating prompt construction, gateway
// invocation, transformation and persistence. Services propagate component
// failures unchanged; the only sanctioned local recoveries are the
// definition and explanation fallbacks for empty model responses.
package service
