/*
 * xyz.go, part of gochem-enm.
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

//Package xyz reads and writes structures in the XYZ format.
package xyz

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	v3 "github.com/rmera/enm/v3"
)

//Error is the error returned when reading or writing XYZ files.
type Error struct {
	message  string
	filename string //the file that has problems, or empty string if none.
	deco     []string
	critical bool
}

func (err *Error) Error() string {
	return fmt.Sprintf("xyz file %s error: %s", err.filename, err.message)
}

//Decorate adds new information to the error
func (err *Error) Decorate(deco string) []string {
	if deco != "" {
		err.deco = append(err.deco, deco)
	}
	return err.deco
}

//FileName returns the file to which the error is associated
func (err *Error) FileName() string { return err.filename }

//Critical returns true if the error is critical, false otherwise
func (err *Error) Critical() bool { return err.critical }

//File reads the first frame of the XYZ file name. It returns the coordinates
//and the element symbols of the atoms.
func File(name string) (*v3.Matrix, []string, error) {
	f, err := os.Open(name)
	if err != nil {
		return nil, nil, &Error{err.Error(), name, []string{"File"}, true}
	}
	defer f.Close()
	coords, symbols, err := Read(f)
	if err != nil {
		e := err.(*Error)
		e.filename = name
		e.Decorate("File")
		return nil, nil, e
	}
	return coords, symbols, nil
}

//maxPrealloc is the largest number of atoms for which Read allocates
//memory before reading them.
const maxPrealloc = 1 << 16

//Read reads the first frame of an XYZ file from r: a line with the number of atoms, a comment
//line, and one "symbol x y z" line per atom. Anything after the first frame is ignored.
func Read(r io.Reader) (*v3.Matrix, []string, error) {
	s := bufio.NewScanner(r)
	lineno := 0
	next := func() (string, bool) {
		lineno++
		if !s.Scan() {
			return "", false
		}
		return s.Text(), true
	}
	line, ok := next()
	if !ok {
		return nil, nil, readError(s.Err(), lineno, "missing number of atoms")
	}
	natoms, err := strconv.Atoi(strings.TrimSpace(line))
	if err != nil || natoms < 1 {
		return nil, nil, readError(nil, lineno, fmt.Sprintf("invalid number of atoms %q", strings.TrimSpace(line)))
	}
	if _, ok := next(); !ok { //we don't care about the comment line
		return nil, nil, readError(s.Err(), lineno, "missing comment line")
	}
	//the count can't be trusted until the atoms are actually read.
	prealloc := min(natoms, maxPrealloc)
	symbols := make([]string, 0, prealloc)
	data := make([]float64, 0, 3*prealloc)
	for i := 0; i < natoms; i++ {
		line, ok := next()
		if !ok {
			return nil, nil, readError(s.Err(), lineno, fmt.Sprintf("expected %d atoms, found %d", natoms, i))
		}
		fields := strings.Fields(line)
		if len(fields) < 4 {
			return nil, nil, readError(nil, lineno, "ill-formed atom line")
		}
		symbols = append(symbols, fields[0])
		for j := 0; j < 3; j++ {
			c, err := strconv.ParseFloat(fields[j+1], 64)
			if err != nil {
				return nil, nil, readError(err, lineno, "ill-formed coordinate")
			}
			data = append(data, c)
		}
	}
	coords, err := v3.NewMatrix(data)
	if err != nil {
		return nil, nil, readError(err, lineno, "building the coordinates")
	}
	return coords, symbols, nil
}

func readError(err error, lineno int, msg string) *Error {
	if err != nil {
		msg = fmt.Sprintf("%s: %s", msg, err.Error())
	}
	return &Error{fmt.Sprintf("line %d: %s", lineno, msg), "", []string{"Read"}, true}
}

//Write writes coords and symbols to w as an XYZ frame, with the given comment.
//The comment must be a single line.
func Write(w io.Writer, coords *v3.Matrix, symbols []string, comment string) error {
	n := coords.NVecs()
	if len(symbols) != n {
		return &Error{fmt.Sprintf("%d symbols for %d atoms", len(symbols), n), "", []string{"Write"}, true}
	}
	if _, err := fmt.Fprintf(w, "%-4d\n%s\n", n, strings.ReplaceAll(comment, "\n", " ")); err != nil {
		return &Error{err.Error(), "", []string{"Write"}, true}
	}
	for i := 0; i < n; i++ {
		c := coords.Vec(i)
		if _, err := fmt.Fprintf(w, "%-2s  %12.6f%12.6f%12.6f\n", symbols[i], c[0], c[1], c[2]); err != nil {
			return &Error{err.Error(), "", []string{"Write"}, true}
		}
	}
	return nil
}
