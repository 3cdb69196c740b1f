package manifest

import (
	"github.com/calebmaier/swiftadd/pkg/errors"
)

// AddPackageDependency inserts the declaration for ref into the
// manifest's top-level dependency list and returns the new text. The
// input is never modified.
//
// Placement rules, in order:
//
//  1. If one or more .package(...) declarations exist, the new one is
//     spliced in immediately after the last, preserving declared order
//     as newest-last. Comma placement stays valid whether or not the
//     last declaration carried a trailing comma.
//  2. Otherwise the dependencies: [ opening that follows the products:
//     field is used and the declaration becomes the list's first
//     element. The products anchor keeps a target's local dependencies
//     array from being mistaken for the top-level list.
//  3. If neither anchor matches, the manifest is not in a recognized
//     shape and an INVALID_MANIFEST error is returned.
//
// A declaration for the same repository URL (compared canonically, so
// trailing .git does not defeat the check) yields an ALREADY_DECLARED
// error rather than a duplicate entry.
func AddPackageDependency(src string, ref Reference) (string, error) {
	mask := codeMask(src)

	decls := findAll(src, mask, rePackageDecl)
	if url, ok := declaredURL(src, mask, decls, ref.URL); ok {
		return "", errors.New(errors.ErrCodeAlreadyDeclared, "dependency %s is already declared", url)
	}

	if len(decls) > 0 {
		last := decls[len(decls)-1]
		end, err := balancedEnd(src, mask, last[1]-1)
		if err != nil {
			return "", err
		}
		indent := lineIndent(src, last[0])
		return src[:end] + ",\n" + indent + ref.Decl() + src[end:], nil
	}

	return insertIntoEmptyList(src, mask, ref)
}

// declaredURL reports whether any existing declaration already names the
// given repository URL, returning the URL as written in the manifest.
func declaredURL(src string, mask []bool, decls [][]int, url string) (string, bool) {
	want := CanonicalURL(url)
	for _, loc := range decls {
		end, err := balancedEnd(src, mask, loc[1]-1)
		if err != nil {
			continue
		}
		m := reURLArg.FindStringSubmatch(src[loc[0]:end])
		if m == nil {
			continue
		}
		if CanonicalURL(m[1]) == want {
			return m[1], true
		}
	}
	return "", false
}

// insertIntoEmptyList handles a manifest with no existing dependency
// declarations: the first dependencies: [ opening after the products
// field becomes the anchor and ref is inserted as the first element.
func insertIntoEmptyList(src string, mask []bool, ref Reference) (string, error) {
	products, ok := findFrom(src, mask, reProductsOpen, 0)
	if !ok {
		return "", errors.New(errors.ErrCodeInvalidManifest, "no products field found; manifest is not in a recognized shape")
	}
	productsEnd, err := balancedEnd(src, mask, products[1]-1)
	if err != nil {
		return "", err
	}

	// The top-level list is a sibling of products: same nesting depth.
	// Anything deeper belongs to a target and is skipped.
	fieldDepth := depthAt(src, mask, 0, products[0])
	var open []int
	for _, loc := range findAll(src, mask, reDepListOpen) {
		if loc[0] >= productsEnd && depthAt(src, mask, 0, loc[0]) == fieldDepth {
			open = loc
			break
		}
	}
	if open == nil {
		return "", errors.New(errors.ErrCodeInvalidManifest, "no dependency list found after products field")
	}

	bracket := open[1] - 1
	indent := lineIndent(src, open[0])
	entry := "\n" + indent + "    " + ref.Decl() + ",\n" + indent
	return src[:bracket+1] + entry + src[bracket+1:], nil
}
