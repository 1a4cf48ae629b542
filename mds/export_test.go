package mds

// SymmetricEigen exposes the Jacobi solver to package tests.
var SymmetricEigen = symmetricEigen
