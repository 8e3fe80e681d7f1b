package provider

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mvp-joe/phpscope/internal/model"
)

// Test Plan for Provider:
// - New seeds the builtin baseline; WithoutBuiltins yields an empty namespace
// - Load registers constants, functions, interfaces, traits, classes
// - define('NAME', ...) registers a constant alongside const declarations
// - Redeclaring a builtin or an already loaded name fails with
//   ErrDuplicateDeclaration and leaves the table untouched
// - Missing, unparsable, and cyclic files fail with ErrSourceLoad; rejected
//   files leave the table and the inheritance graph untouched
// - Entity merges trait, parent, and interface members with own-first
//   precedence, keeping DeclaredIn on inherited members
// - Interface extends: first parent becomes Parent, transitive interfaces
//   merge into the interface set of implementing classes
// - LookupConstantValue resolves global, Foo::BAR, self:: and parent:: refs

func fixture(name string) string {
	return filepath.Join("..", "..", "testdata", "php", name)
}

func TestNew_SeedsBuiltins(t *testing.T) {
	t.Parallel()

	p := New()

	assert.Contains(t, p.Names(model.CategoryFunction), "strlen")
	assert.Contains(t, p.Names(model.CategoryConstant), "PHP_EOL")
	assert.Contains(t, p.Names(model.CategoryClass), "Exception")
	assert.Contains(t, p.Names(model.CategoryInterface), "Countable")

	c, ok := p.Constant("PHP_INT_MAX")
	require.True(t, ok)
	assert.Equal(t, model.KindInt, c.Value.Kind)
}

func TestNew_WithoutBuiltins(t *testing.T) {
	t.Parallel()

	p := New(WithoutBuiltins())

	for _, cat := range model.Categories() {
		assert.Empty(t, p.Names(cat), "category %s should start empty", cat)
	}
	_, ok := p.Constant("PHP_EOL")
	assert.False(t, ok)
}

func TestLoad_RegistersDeclarations(t *testing.T) {
	t.Parallel()

	p := New(WithoutBuiltins())
	require.NoError(t, p.Load(fixture("simple.php")))

	assert.Equal(t, []string{"MAX_RETRIES", "APP_NAME"}, p.Names(model.CategoryConstant))
	assert.Equal(t, []string{"greet"}, p.Names(model.CategoryFunction))
	assert.Equal(t, []string{"Persistable"}, p.Names(model.CategoryInterface))
	assert.Equal(t, []string{"Timestamped"}, p.Names(model.CategoryTrait))
	assert.Equal(t, []string{"Account"}, p.Names(model.CategoryClass))
}

func TestLoad_ConstantDetails(t *testing.T) {
	t.Parallel()

	p := New(WithoutBuiltins())
	require.NoError(t, p.Load(fixture("simple.php")))

	c, ok := p.Constant("MAX_RETRIES")
	require.True(t, ok)
	assert.Equal(t, model.KindInt, c.Value.Kind)
	assert.Equal(t, "3", c.Value.Raw)
	assert.Contains(t, c.DocComment, "Maximum retry attempts")

	// Constants registered through define() carry the literal value.
	defined, ok := p.Constant("APP_NAME")
	require.True(t, ok)
	assert.Equal(t, model.KindString, defined.Value.Kind)
	assert.Equal(t, "'fixture-app'", defined.Value.Raw)
}

func TestLoad_FunctionDetails(t *testing.T) {
	t.Parallel()

	p := New(WithoutBuiltins())
	require.NoError(t, p.Load(fixture("simple.php")))

	fn, ok := p.Function("greet")
	require.True(t, ok)
	assert.Empty(t, fn.DeclaredIn)
	assert.Empty(t, fn.Modifiers)
	require.Len(t, fn.Params, 2)

	assert.Equal(t, "name", fn.Params[0].Name)
	assert.Empty(t, fn.Params[0].DeclaredType)
	assert.False(t, fn.Params[0].HasDefault)

	assert.Equal(t, "times", fn.Params[1].Name)
	assert.Equal(t, "int", fn.Params[1].DeclaredType)
	assert.True(t, fn.Params[1].HasDefault)
	assert.Equal(t, model.KindInt, fn.Params[1].Default.Kind)
	assert.Equal(t, "1", fn.Params[1].Default.Raw)
	assert.True(t, fn.Params[1].Optional())
}

func TestLoad_EntityOwnMembers(t *testing.T) {
	t.Parallel()

	p := New(WithoutBuiltins())
	require.NoError(t, p.Load(fixture("simple.php")))

	account, ok := p.Entity("Account")
	require.True(t, ok)

	assert.Equal(t, model.CategoryClass, account.Category)
	assert.True(t, account.Modifiers.Has(model.ModifierFinal))
	assert.Empty(t, account.Parent)
	assert.Equal(t, []string{"Persistable"}, account.Interfaces)
	assert.Equal(t, []string{"Timestamped"}, account.Traits)
	assert.Contains(t, account.DocComment, "account aggregate")
}

func TestLoad_ImplicitPublicVisibility(t *testing.T) {
	t.Parallel()

	p := New(WithoutBuiltins())
	require.NoError(t, p.Load(fixture("simple.php")))

	account, ok := p.Entity("Account")
	require.True(t, ok)

	// DEFAULT_CURRENCY declares public explicitly, FLAGS declares private;
	// neither gets a second visibility.
	byName := make(map[string]ConstantDecl)
	for _, c := range account.Constants {
		byName[c.Name] = c
	}
	assert.True(t, byName["DEFAULT_CURRENCY"].Modifiers.Has(model.ModifierPublic))
	assert.True(t, byName["FLAGS"].Modifiers.Has(model.ModifierPrivate))
	assert.False(t, byName["FLAGS"].Modifiers.Has(model.ModifierPublic))

	// retry writes no visibility and defaults to public.
	for _, m := range account.Methods {
		if m.Name == "retry" {
			assert.True(t, m.Modifiers.Has(model.ModifierPublic))
		}
	}
}

func TestEntity_MergesTraitAndInterfaceMembers(t *testing.T) {
	t.Parallel()

	p := New(WithoutBuiltins())
	require.NoError(t, p.Load(fixture("simple.php")))

	account, ok := p.Entity("Account")
	require.True(t, ok)

	// STORAGE_HINT comes from the Persistable interface after own constants.
	constNames := make([]string, 0, len(account.Constants))
	for _, c := range account.Constants {
		constNames = append(constNames, c.Name)
	}
	assert.Equal(t, []string{"DEFAULT_CURRENCY", "FLAGS", "STORAGE_HINT"}, constNames)
	assert.Equal(t, "Persistable", account.Constants[2].DeclaredIn)

	// updatedAt comes from the Timestamped trait.
	var updatedAt *PropertyDecl
	for i := range account.Properties {
		if account.Properties[i].Name == "updatedAt" {
			updatedAt = &account.Properties[i]
		}
	}
	require.NotNil(t, updatedAt)
	assert.Equal(t, "Timestamped", updatedAt.DeclaredIn)

	// persist is declared on Account itself, so the interface signature does
	// not override it; touch flows in from the trait.
	methods := make(map[string]FunctionDecl)
	for _, m := range account.Methods {
		methods[m.Name] = m
	}
	assert.Equal(t, "Account", methods["persist"].DeclaredIn)
	assert.Equal(t, "Timestamped", methods["touch"].DeclaredIn)
	assert.Equal(t, "void", methods["touch"].ReturnType)
}

func TestEntity_ParentChain(t *testing.T) {
	t.Parallel()

	p := New(WithoutBuiltins())
	require.NoError(t, p.Load(fixture("inheritance.php")))

	user, ok := p.Entity("User")
	require.True(t, ok)
	assert.Equal(t, "Entity", user.Parent)
	assert.Equal(t, []string{"Identifiable"}, user.Interfaces)

	constNames := make([]string, 0, len(user.Constants))
	for _, c := range user.Constants {
		constNames = append(constNames, c.Name)
	}
	assert.Equal(t, []string{"SCHEMA_VERSION"}, constNames)
	assert.Equal(t, "Entity", user.Constants[0].DeclaredIn)

	methods := make(map[string]FunctionDecl)
	for _, m := range user.Methods {
		methods[m.Name] = m
	}
	assert.Equal(t, "User", methods["validate"].DeclaredIn)
	assert.Equal(t, "Entity", methods["id"].DeclaredIn)
}

func TestEntity_InterfaceExtends(t *testing.T) {
	t.Parallel()

	p := New(WithoutBuiltins())
	require.NoError(t, p.Load(fixture("inheritance.php")))

	auditable, ok := p.Entity("Auditable")
	require.True(t, ok)
	assert.Equal(t, model.CategoryInterface, auditable.Category)
	assert.Equal(t, "Identifiable", auditable.Parent)
	assert.Empty(t, auditable.Interfaces)

	// The extended interface's signatures merge in.
	methods := make(map[string]FunctionDecl)
	for _, m := range auditable.Methods {
		methods[m.Name] = m
	}
	require.Contains(t, methods, "id")
	assert.Equal(t, "Identifiable", methods["id"].DeclaredIn)
}

func TestLoad_DuplicateOfBuiltin(t *testing.T) {
	t.Parallel()

	p := New()
	err := p.Load(fixture("duplicate.php"))

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrDuplicateDeclaration)
	assert.ErrorContains(t, err, "strlen")

	// The failed load registered nothing.
	_, ok := p.Function("strlen")
	assert.False(t, ok)
}

func TestLoad_DuplicateAcrossFiles(t *testing.T) {
	t.Parallel()

	p := New(WithoutBuiltins())
	require.NoError(t, p.Load(fixture("prelude.php")))

	err := p.Load(fixture("prelude.php"))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrDuplicateDeclaration)

	// The first load is still intact.
	_, ok := p.Function("sharedHelper")
	assert.True(t, ok)
	assert.Equal(t, []string{"sharedHelper"}, p.Names(model.CategoryFunction))
}

func TestLoad_MissingFile(t *testing.T) {
	t.Parallel()

	p := New()
	err := p.Load(fixture("does-not-exist.php"))

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrSourceLoad)
}

func TestLoad_UnparsableFile(t *testing.T) {
	t.Parallel()

	// Tree-sitter recovers from syntax errors, so the load has to reject the
	// file itself rather than rely on parsing to fail.
	p := New(WithoutBuiltins())
	err := p.Load(fixture("broken.php"))

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrSourceLoad)
	assert.ErrorContains(t, err, "syntax error")

	for _, cat := range model.Categories() {
		assert.Empty(t, p.Names(cat), "rejected file must register nothing in %s", cat)
	}
}

func TestLoad_InheritanceCycle(t *testing.T) {
	t.Parallel()

	p := New(WithoutBuiltins())
	err := p.Load(fixture("cycle.php"))

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrSourceLoad)
}

func TestLoad_RejectedFileLeavesHierarchyIntact(t *testing.T) {
	t.Parallel()

	p := New(WithoutBuiltins())
	require.Error(t, p.Load(fixture("cycle.php")))

	// The rejected file's partial edges must not linger: a later file may
	// legitimately reuse the same names without forming a cycle.
	require.NoError(t, p.Load(fixture("beta.php")))

	beta, ok := p.Entity("Beta")
	require.True(t, ok)
	assert.Equal(t, "Alpha", beta.Parent)
}

func TestLookupConstantValue(t *testing.T) {
	t.Parallel()

	p := New()
	require.NoError(t, p.Load(fixture("simple.php")))

	global, ok := p.LookupConstantValue("MAX_RETRIES", "")
	require.True(t, ok)
	assert.Equal(t, model.KindInt, global.Kind)

	builtin, ok := p.LookupConstantValue("PHP_EOL", "")
	require.True(t, ok)
	assert.Equal(t, model.KindString, builtin.Kind)

	classConst, ok := p.LookupConstantValue("Account::DEFAULT_CURRENCY", "")
	require.True(t, ok)
	assert.Equal(t, model.KindString, classConst.Kind)

	selfConst, ok := p.LookupConstantValue("self::DEFAULT_CURRENCY", "Account")
	require.True(t, ok)
	assert.Equal(t, "'EUR'", selfConst.Raw)

	_, ok = p.LookupConstantValue("Account::NOPE", "")
	assert.False(t, ok)

	_, ok = p.LookupConstantValue("UNDECLARED_NAME", "")
	assert.False(t, ok)
}

func TestLookupConstantValue_Parent(t *testing.T) {
	t.Parallel()

	p := New(WithoutBuiltins())
	require.NoError(t, p.Load(fixture("inheritance.php")))

	v, ok := p.LookupConstantValue("parent::SCHEMA_VERSION", "User")
	require.True(t, ok)
	assert.Equal(t, "2", v.Raw)
}
