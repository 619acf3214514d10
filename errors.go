/*
 * errors.go, part of gochem-enm.
 *
 * Copyright 2024 Raul Mera A. (raulpuntomeraatusachpuntocl)
 *
 * This program is free software; you can redistribute it and/or modify
 * it under the terms of the GNU Lesser General Public License as
 * published by the Free Software Foundation; either version 2.1 of the
 * License, or (at your option) any later version.
 *
 * This program is distributed in the hope that it will be useful,
 * but WITHOUT ANY WARRANTY; without even the implied warranty of
 * MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
 * GNU General Public License for more details.
 *
 * You should have received a copy of the GNU Lesser General
 * Public License along with this program.  If not, see
 * <http://www.gnu.org/licenses/>.
 *
 */

package enm

import (
	"errors"
	"fmt"
	"strings"
)

//The two kinds of failure. Every error returned by this package
//wraps one of them, so they can be checked with errors.Is.
var (
	ErrInvalidInput  = errors.New("enm: invalid input")
	ErrDecomposition = errors.New("enm: decomposition error")
)

//Error is the error type for the package. Besides the message and the kind
//(one of ErrInvalidInput or ErrDecomposition) it keeps a "decoration": the list of
//functions the error went through, with extra information if needed, in the
//format "FunctionName: Extra info".
type Error struct {
	message  string
	kind     error
	deco     []string
	critical bool
}

func (err *Error) Error() string {
	if len(err.deco) == 0 {
		return fmt.Sprintf("%s: %s", err.kind, err.message)
	}
	return fmt.Sprintf("%s: %s (%s)", err.kind, err.message, strings.Join(err.deco, " < "))
}

//Unwrap returns the kind of the error.
func (err *Error) Unwrap() error { return err.kind }

//Decorate adds dec to the decoration of the error and returns the resulting
//slice. An empty dec just returns the current decoration.
func (err *Error) Decorate(dec string) []string {
	if dec != "" {
		err.deco = append(err.deco, dec)
	}
	return err.deco
}

//Critical returns true if the error is critical, false otherwise.
//All errors in this package are.
func (err *Error) Critical() bool { return err.critical }

func invalidInput(caller, format string, a ...any) *Error {
	return &Error{fmt.Sprintf(format, a...), ErrInvalidInput, []string{caller}, true}
}

func decompositionError(caller, format string, a ...any) *Error {
	return &Error{fmt.Sprintf(format, a...), ErrDecomposition, []string{caller}, true}
}

//errDecorate decorates err with the caller's name, if err is an *Error.
//Other errors are returned unchanged.
func errDecorate(err error, caller string) error {
	var e *Error
	if errors.As(err, &e) {
		e.Decorate(caller)
	}
	return err
}
