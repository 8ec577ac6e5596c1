// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package errors

// Op represents an operation (package.function).
// For example, stratum.(Manager).Install is the Install
// method of the Manager type in the stratum package.
type Op string
