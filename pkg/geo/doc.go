// Package geo provides the small amount of spherical geometry needed to
// evaluate circular geofences against position fixes.
package geo
