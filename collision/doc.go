// Package collision simulates hard circles bouncing in the unit square.
//
// Particles are placed by rejection sampling so that no two circles overlap.
// A tick moves and wall-bounces each particle in turn. Overlapping pairs are
// then resolved elastically, checking all i < j, and an optional force hook
// runs last.
//
// Mass is proportional to area (radius squared). Collision checks look only
// at overlap after the advance, so fast particles may pass through each other.
package collision
