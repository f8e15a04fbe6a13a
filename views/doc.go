// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

/*
Package views holds the pages the builder generates itself rather than
translating from the template tree.

Components are written as .templ files; run `templ generate` after editing
them.
*/
package views
