// SPDX-License-Identifier: MPL-2.0

// Package platform provides cross-platform compatibility utilities.
//
// It resolves the host shell used by keebi.exec (including the escape hatch
// out of Flatpak and Snap sandboxes) and validates script names against
// filenames that cannot exist on some platforms.
package platform
