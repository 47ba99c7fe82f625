package store

import (
	"context"

	"github.com/spec-kit/ticket-flow/internal/domain"
)

// Registries bundles the stores the seeder touches.
type Registries struct {
	Tickets     *TicketStore
	Categories  *CategoryStore
	Priorities  *PriorityStore
	Users       *UserStore
	Permissions *PermissionStore
}

const seedActor = "system"

// SeedReferenceData populates empty registries with the baseline reference
// data the application assumes: the five ticket categories, the three
// priorities, the system permissions with their default role templates, and
// an initial admin account. Non-empty registries are left alone.
func SeedReferenceData(ctx context.Context, reg Registries) {
	if len(reg.Categories.List(false)) == 0 {
		for _, c := range defaultCategories {
			_, _ = reg.Categories.Create(ctx, seedActor, c)
		}
	}
	if len(reg.Priorities.Snapshot()) == 0 {
		for _, p := range defaultPriorities {
			_, _ = reg.Priorities.Create(ctx, seedActor, p)
		}
	}
	if len(reg.Permissions.ListPermissions()) == 0 {
		for _, p := range systemPermissions {
			_, _ = reg.Permissions.CreatePermission(ctx, seedActor, p)
		}
		for _, t := range defaultTemplates {
			_, _ = reg.Permissions.CreateTemplate(ctx, seedActor, t)
		}
	}
	if len(reg.Users.List(false)) == 0 {
		admin := UserInput{
			Name:   "Administrador",
			Email:  "admin@ticketflow.local",
			Role:   domain.RoleAdmin,
			Status: domain.UserStatusActive,
		}
		if template, ok := reg.Permissions.TemplateForRole(domain.RoleAdmin); ok {
			admin.Permissions = template.Permissions
		}
		_, _ = reg.Users.Create(ctx, seedActor, admin)
	}
}

// SeedSampleTickets loads a handful of demonstration tickets into an empty
// ticket store. Gated behind configuration; never runs over existing data.
func SeedSampleTickets(ctx context.Context, tickets *TicketStore) {
	if len(tickets.List()) > 0 {
		return
	}
	for _, input := range sampleTickets {
		_, _ = tickets.Create(ctx, seedActor, input)
	}
	tickets.RecordSystemEvent(ctx, "dados de exemplo carregados")
}

var defaultCategories = []CategoryInput{
	{Key: "bug", Label: "Bug", Icon: "bug", Color: "red", Active: true, Description: "Defeitos e comportamentos incorretos"},
	{Key: "feature", Label: "Feature", Icon: "sparkles", Color: "blue", Active: true, Description: "Novas funcionalidades"},
	{Key: "support", Label: "Suporte", Icon: "lifebuoy", Color: "teal", Active: true, Description: "Dúvidas e atendimento"},
	{Key: "improvement", Label: "Melhoria", Icon: "trending-up", Color: "purple", Active: true, Description: "Aprimoramentos de funcionalidades existentes"},
	{Key: "maintenance", Label: "Manutenção", Icon: "wrench", Color: "gray", Active: true, Description: "Tarefas de manutenção e infraestrutura"},
}

var defaultPriorities = []PriorityInput{
	{Key: "low", Label: "Baixa", Level: 1, Color: "green", Icon: "arrow-down", Active: true},
	{Key: "medium", Label: "Média", Level: 2, Color: "amber", Icon: "minus", Active: true},
	{Key: "high", Label: "Alta", Level: 3, Color: "red", Icon: "arrow-up", Active: true},
}

var systemPermissions = []PermissionInput{
	{ID: "view_tickets", Label: "Ver tickets", Category: domain.PermissionCategoryBasic, IsSystemPermission: true},
	{ID: "create_tickets", Label: "Criar tickets", Category: domain.PermissionCategoryBasic, IsSystemPermission: true},
	{ID: "edit_tickets", Label: "Editar tickets", Category: domain.PermissionCategoryBasic, IsSystemPermission: true},
	{ID: "delete_tickets", Label: "Excluir tickets", Category: domain.PermissionCategoryAdvanced, IsSystemPermission: true},
	{ID: "move_tickets", Label: "Mover tickets no board", Category: domain.PermissionCategoryAdvanced, IsSystemPermission: true},
	{ID: "manage_users", Label: "Gerenciar usuários", Category: domain.PermissionCategoryAdmin, IsSystemPermission: true},
	{ID: "manage_permissions", Label: "Gerenciar permissões", Category: domain.PermissionCategoryAdmin, IsSystemPermission: true},
	{ID: "manage_registries", Label: "Gerenciar categorias e prioridades", Category: domain.PermissionCategoryAdmin, IsSystemPermission: true},
}

var defaultTemplates = []RoleTemplateInput{
	{Name: "Administrador", Role: domain.RoleAdmin, IsDefault: true, Permissions: []string{
		"view_tickets", "create_tickets", "edit_tickets", "delete_tickets",
		"move_tickets", "manage_users", "manage_permissions", "manage_registries",
	}},
	{Name: "Gestor", Role: domain.RoleGestor, IsDefault: true, Permissions: []string{
		"view_tickets", "create_tickets", "edit_tickets", "move_tickets",
	}},
	{Name: "Desenvolvedor", Role: domain.RoleDev, IsDefault: true, Permissions: []string{
		"view_tickets", "edit_tickets", "move_tickets",
	}},
	{Name: "Suporte", Role: domain.RoleSuporte, IsDefault: true, Permissions: []string{
		"view_tickets", "create_tickets",
	}},
}

var sampleTickets = []TicketInput{
	{
		Title:       "Erro ao salvar formulário",
		Description: "Formulário não salva ao clicar em enviar",
		Priority:    "high",
		Category:    "bug",
		Client:      "Acme",
	},
	{
		Title:       "Exportação de relatórios em PDF",
		Description: "Cliente solicita exportação dos relatórios mensais em PDF",
		Priority:    "medium",
		Category:    "feature",
		Client:      "Globex",
	},
	{
		Title:       "Login lento no horário de pico",
		Description: "Tela de login demora mais de dez segundos entre 9h e 10h",
		Priority:    "medium",
		Category:    "improvement",
		Client:      "Initech",
	},
}
