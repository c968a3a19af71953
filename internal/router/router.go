package router

import (
	"time"

	"achatshub/internal/cache"
	"achatshub/internal/config"
	"achatshub/internal/handler"
	"achatshub/internal/infra"
	"achatshub/internal/middleware"
	"achatshub/internal/pdf"
	"achatshub/internal/repository"
	"achatshub/internal/service"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// New wires all dependencies and returns a configured Gin engine.
// Dependency graph: Handler ← Service ← Repository ← DB/Redis
func New(cfg *config.Config, db *gorm.DB, rdb *redis.Client) *gin.Engine {
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// Global middleware chain (order matters)
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger())
	r.Use(middleware.Recovery())
	r.Use(middleware.CORS())
	r.Use(middleware.ErrorHandler())
	r.Use(middleware.Metrics())
	r.Use(middleware.RateLimiter(1000, time.Minute)) // 1000 req/min per IP

	// ── Infrastructure ───────────────────────────────────────────────────────
	mailer := infra.NewMailer(cfg)
	pdfEngine := pdf.NewEngine(cfg)
	pdfCache := cache.NewRedis(rdb)

	// ── Repositories ─────────────────────────────────────────────────────────
	utilisateurRepo := repository.NewUtilisateurRepository(db)
	projetRepo := repository.NewProjetRepository(db)
	fournisseurRepo := repository.NewFournisseurRepository(db)
	activiteRepo := repository.NewActiviteRepository(db)
	demandeRepo := repository.NewDemandeRepository(db)
	commandeRepo := repository.NewCommandeRepository(db)
	auditRepo := repository.NewAuditRepository(db)

	// ── Services ─────────────────────────────────────────────────────────────
	permissionSvc := service.NewPermissionService(utilisateurRepo)
	authSvc := service.NewAuthService(utilisateurRepo, permissionSvc, cfg)
	demandeSvc := service.NewDemandeService(demandeRepo, projetRepo, fournisseurRepo, activiteRepo, auditRepo)
	workflowSvc := service.NewWorkflowService(demandeRepo, commandeRepo, auditRepo, pdfEngine, mailer, cfg.BillingEmail)
	commandeSvc := service.NewCommandeService(commandeRepo, auditRepo, pdfEngine, pdfCache)
	fournisseurSvc := service.NewFournisseurService(fournisseurRepo)
	projetSvc := service.NewProjetService(projetRepo)
	exportSvc := service.NewExportService(commandeRepo, auditRepo)

	// ── Handlers ─────────────────────────────────────────────────────────────
	authH := handler.NewAuthHandler(authSvc)
	demandesH := handler.NewDemandesHandler(demandeSvc, workflowSvc)
	commandesH := handler.NewCommandesHandler(commandeSvc, workflowSvc)
	fournisseursH := handler.NewFournisseursHandler(fournisseurSvc)
	projetsH := handler.NewProjetsHandler(projetSvc)
	exportH := handler.NewExportHandler(exportSvc)

	// ── Routes ───────────────────────────────────────────────────────────────

	// Public
	r.GET("/health", handler.Health(db, rdb))
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// Auth (public)
	auth := r.Group("/v1/auth")
	{
		auth.POST("/login", middleware.LoginRateLimiter(), authH.Login)
		auth.POST("/refresh", authH.Refresh)
	}

	// Protected routes
	jwtMW := middleware.JWTAuth(cfg.JWTSecret)
	perm := func(action string) gin.HandlerFunc {
		return middleware.RequirePermission(permissionSvc, action)
	}
	v1 := r.Group("/v1", jwtMW)
	{
		v1.GET("/compte", authH.Compte)

		demandes := v1.Group("/demandes")
		{
			demandes.POST("", perm(service.PermDemandeCreer), demandesH.Creer)
			demandes.GET("", perm(service.PermDemandeLire), demandesH.List)
			demandes.GET("/form-data", perm(service.PermDemandeLire), demandesH.FormData)
			demandes.GET("/numero/:numero", perm(service.PermDemandeLire), demandesH.GetByNumero)
			demandes.GET("/:id", perm(service.PermDemandeLire), demandesH.Get)
			demandes.PATCH("/:id", perm(service.PermDemandeModifier), demandesH.Modifier)
			demandes.GET("/:id/historique", perm(service.PermDemandeLire), demandesH.Historique)
			demandes.POST("/:id/soumettre", perm(service.PermDemandeModifier), demandesH.Soumettre)
			demandes.POST("/:id/approuver-n1", perm(service.PermApprobation), demandesH.ApprouverN1)
			demandes.POST("/:id/approuver-n2", perm(service.PermApprobation), demandesH.ApprouverN2)
			demandes.POST("/:id/refuser", perm(service.PermApprobation), demandesH.Refuser)
			demandes.POST("/:id/resoumettre", perm(service.PermDemandeModifier), demandesH.Resoumettre)
		}

		commandes := v1.Group("/commandes")
		{
			commandes.GET("", perm(service.PermCommandeLire), commandesH.List)
			commandes.GET("/numero/:numero", perm(service.PermCommandeLire), commandesH.GetByNumero)
			commandes.GET("/numero/:numero/pdf", perm(service.PermCommandeLire), commandesH.PDF)
			commandes.GET("/:id", perm(service.PermCommandeLire), commandesH.Get)
			commandes.GET("/:id/historique", perm(service.PermCommandeLire), commandesH.Historique)
			commandes.POST("/:id/annuler", perm(service.PermCommandeAnnuler), commandesH.Annuler)
			commandes.POST("/:id/reviser", perm(service.PermCommandeModifier), commandesH.Reviser)
			commandes.POST("/:id/confirmer-envoi", perm(service.PermCommandeEnvoyer), commandesH.ConfirmerEnvoi)
		}

		fournisseurs := v1.Group("/fournisseurs")
		{
			fournisseurs.GET("", perm(service.PermFournisseurLire), fournisseursH.List)
			fournisseurs.GET("/:id", perm(service.PermFournisseurLire), fournisseursH.Get)
			fournisseurs.POST("", perm(service.PermFournisseurCreer), fournisseursH.Creer)
			fournisseurs.PUT("/:id", perm(service.PermFournisseurModifier), fournisseursH.Modifier)
			fournisseurs.DELETE("/:id", perm(service.PermFournisseurSupprimer), fournisseursH.Supprimer)
			fournisseurs.POST("/import", perm(service.PermFournisseurImporter), fournisseursH.ImporterCSV)
		}

		projets := v1.Group("/projets")
		{
			projets.GET("", perm(service.PermProjetLire), projetsH.List)
			projets.GET("/:id", perm(service.PermProjetLire), projetsH.Get)
			projets.POST("", perm(service.PermProjetCreer), projetsH.Creer)
			projets.PUT("/:id", perm(service.PermProjetModifier), projetsH.Modifier)
			projets.DELETE("/:id", perm(service.PermProjetModifier), projetsH.Supprimer)
		}

		export := v1.Group("/export/avantage", perm(service.PermExporter))
		{
			export.GET("", exportH.Lignes)
			export.GET("/fichier", exportH.Fichier)
			export.GET("/classeur", exportH.Classeur)
			export.POST("/confirmer", exportH.Confirmer)
		}
	}

	// Swagger UI, only enabled outside production
	if cfg.Env != "production" {
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	return r
}
